// Package loyalty implements the free-refill program: every Nth cumulative
// refill of a given package is free, where N is the shop's interval.
package loyalty

import (
	"hamu/internal/core/types"
)

// Split is the free/paid breakdown for a prospective refill purchase.
type Split struct {
	// TotalBefore is the customer's cumulative refill count for the
	// package before this purchase.
	TotalBefore int `json:"totalBefore"`

	// TotalAfter = TotalBefore + requested quantity.
	TotalAfter int `json:"totalAfter"`

	FreeQuantity int `json:"freeQuantity"`
	PaidQuantity int `json:"paidQuantity"`

	// Cost is unit price times PaidQuantity.
	Cost types.Money `json:"cost"`

	// RefillsUntilNextFree counts paid refills remaining after this
	// purchase until the next free one. Zero means the milestone was hit
	// exactly; zero when the program is disabled.
	RefillsUntilNextFree int `json:"refillsUntilNextFree"`
}

// ComputeSplit calculates how many of quantity refills are free given the
// customer's cumulative count and the shop's interval.
//
// A purchase of Q refills crosses floor((before+Q)/N) - floor(before/N)
// milestones; each crossed milestone grants one free refill, capped at Q.
// interval <= 0 disables the program: everything is paid.
func ComputeSplit(totalBefore, quantity, interval int, unitPrice types.Money) Split {
	split := Split{
		TotalBefore:  totalBefore,
		TotalAfter:   totalBefore + quantity,
		PaidQuantity: quantity,
		Cost:         types.MulInt(unitPrice, int64(quantity)),
	}

	if interval <= 0 || quantity <= 0 {
		return split
	}

	free := (totalBefore+quantity)/interval - totalBefore/interval
	if free > quantity {
		free = quantity
	}

	split.FreeQuantity = free
	split.PaidQuantity = quantity - free
	split.Cost = types.MulInt(unitPrice, int64(split.PaidQuantity))

	if rem := split.TotalAfter % interval; rem != 0 {
		split.RefillsUntilNextFree = interval - rem
	}
	return split
}
