package service

import "errors"

var (
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrInvalidProduct   = errors.New("product id, name, price and cost are required")
	ErrEmptyCart        = errors.New("cart is empty, nothing to checkout")
	ErrInsufficientCash = errors.New("cash received is less than the cart total")
)
