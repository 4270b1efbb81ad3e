package kernel

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"workload/internal/pkg/errs"
)

const (
	orderNumberPrefix     = "ORD"
	orderNumberDateLayout = "02012006"
	orderNumberMaxLength  = 64
)

// ErrOrderNumberIsRequired is returned when an order number is empty or blank.
var ErrOrderNumberIsRequired = errs.NewValueIsRequiredError("order number")

// OrderNumber identifies an order for its whole lifetime. Numbers are unique and are
// never reused once assigned.
type OrderNumber struct {
	value string
}

// NewOrderNumber validates and wraps an externally supplied order number.
// Surrounding whitespace is trimmed.
func NewOrderNumber(value string) (OrderNumber, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return OrderNumber{}, ErrOrderNumberIsRequired
	}
	if len(value) > orderNumberMaxLength {
		return OrderNumber{}, errs.NewValueIsOutOfRangeError("order number length", len(value), 1, orderNumberMaxLength)
	}
	return OrderNumber{value: value}, nil
}

// String returns the order number text.
func (n OrderNumber) String() string {
	return n.value
}

// IsZero reports whether the number was never set.
func (n OrderNumber) IsZero() bool {
	return n.value == ""
}

// Validate returns ErrOrderNumberIsRequired for the zero value.
func (n OrderNumber) Validate() error {
	if n.IsZero() {
		return ErrOrderNumberIsRequired
	}
	return nil
}

// OrderNumberSequence hands out order numbers of the form ORD<ddmmyyyy>-<counter>.
// The counter never resets, so numbers are strictly increasing in issue order
// even across days. Safe for concurrent use.
type OrderNumberSequence struct {
	mu      sync.Mutex
	counter uint64
	now     func() time.Time
}

// NewOrderNumberSequence creates a sequence that continues after start.
// Pass the highest counter already issued when restoring from persistence, or 0.
func NewOrderNumberSequence(start uint64, now func() time.Time) *OrderNumberSequence {
	if now == nil {
		now = time.Now
	}
	return &OrderNumberSequence{
		counter: start,
		now:     now,
	}
}

// Next returns the next order number.
func (s *OrderNumberSequence) Next() OrderNumber {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counter++
	return OrderNumber{
		value: fmt.Sprintf("%s%s-%06d", orderNumberPrefix, s.now().Format(orderNumberDateLayout), s.counter),
	}
}

// Counter extracts the sequence counter of a generated number. It reports false for
// numbers that were not issued by an OrderNumberSequence.
func (n OrderNumber) Counter() (uint64, bool) {
	rest, ok := strings.CutPrefix(n.value, orderNumberPrefix)
	if !ok {
		return 0, false
	}
	date, counter, ok := strings.Cut(rest, "-")
	if !ok || len(date) != len(orderNumberDateLayout) || counter == "" {
		return 0, false
	}
	if _, err := time.Parse(orderNumberDateLayout, date); err != nil {
		return 0, false
	}
	value, err := strconv.ParseUint(counter, 10, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
