// Package staff models the staff members that work units are assigned to.
//
// A Member has an immutable set of skill-group memberships fixed at creation and a
// mutable availability flag toggled by Login and Logout. While logged in a member
// holds the work units currently assigned to it; logging out hands them back so the
// dispatcher can requeue them.
//
// Member is not safe for concurrent use on its own. The dispatch engine guards every
// member with its own lock.
package staff
