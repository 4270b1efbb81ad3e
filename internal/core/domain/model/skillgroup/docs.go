// Package skillgroup maps product types onto the skill groups that prepare them.
//
// The Registry is loaded from configuration at startup and is read on every order
// submission. Lookups never create mappings: a product type without a mapping is
// rejected with ErrUnmappedProductType so an order can never reach a queue that no
// staff member could ever serve.
package skillgroup
