// Salescope - Sales Analytics Query Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salescope

package query

import (
	"fmt"
	"net/url"
)

// Dimension is one of the three filterable and groupable columns of the
// fact table. The declaration order is the canonical clause order.
type Dimension int

const (
	DimPlatform Dimension = iota
	DimSaleMonth
	DimRegion
)

// Dimensions lists every dimension in canonical order.
var Dimensions = [...]Dimension{DimPlatform, DimSaleMonth, DimRegion}

// Column returns the fact-table column name, which is also the query
// parameter name accepted by the HTTP layer.
func (d Dimension) Column() string {
	switch d {
	case DimPlatform:
		return "platform"
	case DimSaleMonth:
		return "sale_month"
	case DimRegion:
		return "region"
	default:
		return ""
	}
}

// CacheKey returns the cache key of the distinct-value list for d.
func (d Dimension) CacheKey() string {
	switch d {
	case DimPlatform:
		return "distinct:platforms"
	case DimSaleMonth:
		return "distinct:months"
	case DimRegion:
		return "distinct:regions"
	default:
		return ""
	}
}

func (d Dimension) String() string {
	if c := d.Column(); c != "" {
		return c
	}
	return fmt.Sprintf("Dimension(%d)", int(d))
}

// Predicate is an equality filter on one dimension.
type Predicate struct {
	Dimension Dimension
	Value     string
}

// FilterSet holds the optional platform, sale_month and region filters of a
// request. An empty value means the dimension is not filtered. Values are
// used verbatim: an unknown value matches nothing rather than failing.
//
// FilterSet is a value type; methods never modify the receiver.
type FilterSet struct {
	values [len(Dimensions)]string
}

// NewFilterSet builds a FilterSet from raw values. Empty strings are absent.
func NewFilterSet(platform, saleMonth, region string) FilterSet {
	return FilterSet{values: [len(Dimensions)]string{platform, saleMonth, region}}
}

// ParseFilterSet reads the filter dimensions from URL query values.
func ParseFilterSet(q url.Values) FilterSet {
	var f FilterSet
	for _, d := range Dimensions {
		f.values[d] = q.Get(d.Column())
	}
	return f
}

// Get returns the filter value for d and whether it is present.
func (f FilterSet) Get(d Dimension) (string, bool) {
	v := f.values[d]
	return v, v != ""
}

// With returns a copy of f with d set to value. An empty value clears d.
func (f FilterSet) With(d Dimension, value string) FilterSet {
	f.values[d] = value
	return f
}

// Active returns the present filters in canonical dimension order.
func (f FilterSet) Active() []Predicate {
	preds := make([]Predicate, 0, len(Dimensions))
	for _, d := range Dimensions {
		if v, ok := f.Get(d); ok {
			preds = append(preds, Predicate{Dimension: d, Value: v})
		}
	}
	return preds
}

// IsEmpty reports whether no filter is present.
func (f FilterSet) IsEmpty() bool {
	return len(f.Active()) == 0
}

// Defaults are the platform and sale_month used by the detail and export
// statements when the caller leaves them unset.
type Defaults struct {
	Platform  string
	SaleMonth string
}

// WithDefaults fills platform and sale_month from d where they are absent.
// Each dimension is defaulted independently. Region is never defaulted.
func (f FilterSet) WithDefaults(d Defaults) FilterSet {
	if _, ok := f.Get(DimPlatform); !ok {
		f = f.With(DimPlatform, d.Platform)
	}
	if _, ok := f.Get(DimSaleMonth); !ok {
		f = f.With(DimSaleMonth, d.SaleMonth)
	}
	return f
}
