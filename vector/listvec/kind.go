// Package listvec implements row-wise reductions over Arrow list arrays.
//
// The three list layouts (variable lists with 32-bit offsets, large lists
// with 64-bit offsets, and fixed-size lists) are described by a single Kind
// so that type resolution and execution always agree on what is supported.
package listvec

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

type Kind int

const (
	List Kind = iota
	LargeList
	FixedSizeList
)

// Kinds lists every supported list layout in a stable order.
var Kinds = []Kind{List, LargeList, FixedSizeList}

func (k Kind) String() string {
	switch k {
	case List:
		return "list"
	case LargeList:
		return "large_list"
	case FixedSizeList:
		return "fixed_size_list"
	}
	return "unknown"
}

// KindOf returns the list layout of typ.
func KindOf(typ arrow.DataType) (Kind, bool) {
	if typ == nil {
		return 0, false
	}
	switch typ.(type) {
	case *arrow.ListType:
		return List, true
	case *arrow.LargeListType:
		return LargeList, true
	case *arrow.FixedSizeListType:
		return FixedSizeList, true
	}
	return 0, false
}

// KindOfArray returns the list layout of the concrete array arr.
func KindOfArray(arr arrow.Array) (Kind, bool) {
	switch arr.(type) {
	case *array.List:
		return List, true
	case *array.LargeList:
		return LargeList, true
	case *array.FixedSizeList:
		return FixedSizeList, true
	}
	return 0, false
}

// ElemType returns the element type of the list type typ unwrapped by
// exactly one level.  Nested list element types are returned as is.
func ElemType(typ arrow.DataType) (arrow.DataType, bool) {
	switch typ := typ.(type) {
	case *arrow.ListType:
		return typ.Elem(), true
	case *arrow.LargeListType:
		return typ.Elem(), true
	case *arrow.FixedSizeListType:
		return typ.Elem(), true
	}
	return nil, false
}
