package models

import "strings"

type Size string

const (
	SizeXS  Size = "XS"
	SizeS   Size = "S"
	SizeM   Size = "M"
	SizeL   Size = "L"
	SizeXL  Size = "XL"
	SizeXXL Size = "XXL"
)

// Sizes lists the buckets in display order.
var Sizes = []Size{SizeXS, SizeS, SizeM, SizeL, SizeXL, SizeXXL}

var sizeColumns = map[Size]string{
	SizeXS:  "xs_quantity",
	SizeS:   "s_quantity",
	SizeM:   "m_quantity",
	SizeL:   "l_quantity",
	SizeXL:  "xl_quantity",
	SizeXXL: "xxl_quantity",
}

func ParseSize(raw string) (Size, bool) {
	s := Size(strings.ToUpper(strings.TrimSpace(raw)))
	_, ok := sizeColumns[s]
	return s, ok
}

func (s Size) Valid() bool {
	_, ok := sizeColumns[s]
	return ok
}

// Column returns the stocks table column that holds the counter for s.
func (s Size) Column() (string, bool) {
	c, ok := sizeColumns[s]
	return c, ok
}
