package models

import "time"

type Stock struct {
	ID        uint       `json:"id" gorm:"primary_key"`
	ProductID uint       `json:"product_id" gorm:"index;not null"`
	Product   *Product   `json:"product,omitempty" gorm:"foreignkey:ProductID"`
	XS        int        `json:"xs_quantity" gorm:"column:xs_quantity;not null;default:0"`
	S         int        `json:"s_quantity" gorm:"column:s_quantity;not null;default:0"`
	M         int        `json:"m_quantity" gorm:"column:m_quantity;not null;default:0"`
	L         int        `json:"l_quantity" gorm:"column:l_quantity;not null;default:0"`
	XL        int        `json:"xl_quantity" gorm:"column:xl_quantity;not null;default:0"`
	XXL       int        `json:"xxl_quantity" gorm:"column:xxl_quantity;not null;default:0"`
	Active    bool       `json:"is_active" gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-" sql:"index"`
}

var stockBuckets = map[Size]func(*Stock) *int{
	SizeXS:  func(s *Stock) *int { return &s.XS },
	SizeS:   func(s *Stock) *int { return &s.S },
	SizeM:   func(s *Stock) *int { return &s.M },
	SizeL:   func(s *Stock) *int { return &s.L },
	SizeXL:  func(s *Stock) *int { return &s.XL },
	SizeXXL: func(s *Stock) *int { return &s.XXL },
}

// Bucket returns a pointer to the counter for size, or false for an unknown size.
func (s *Stock) Bucket(size Size) (*int, bool) {
	f, ok := stockBuckets[size]
	if !ok {
		return nil, false
	}
	return f(s), true
}

func (s *Stock) Quantity(size Size) int {
	if p, ok := s.Bucket(size); ok {
		return *p
	}
	return 0
}

func (s *Stock) TotalQuantity() int {
	return s.XS + s.S + s.M + s.L + s.XL + s.XXL
}

// Quantities returns a copy of every bucket keyed by size.
func (s *Stock) Quantities() map[Size]int {
	out := make(map[Size]int, len(Sizes))
	for _, size := range Sizes {
		out[size] = s.Quantity(size)
	}
	return out
}
