package chat

import (
	"fmt"
	"strings"
)

// Ordering decides where bot replies land when several exchanges overlap.
type Ordering string

const (
	// OrderArrival appends each reply as soon as it arrives.
	OrderArrival Ordering = "arrival"
	// OrderSend appends replies in the order their requests were sent,
	// holding early arrivals until every earlier exchange has finished.
	OrderSend Ordering = "send"
)

func ParseOrdering(s string) (Ordering, error) {
	switch Ordering(strings.ToLower(strings.TrimSpace(s))) {
	case "", OrderArrival:
		return OrderArrival, nil
	case OrderSend:
		return OrderSend, nil
	default:
		return "", fmt.Errorf("unknown reply ordering %q (want %q or %q)", s, OrderArrival, OrderSend)
	}
}

type exchange struct {
	seq      uint64
	done     bool
	hasReply bool
	reply    string
}
