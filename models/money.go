package models

// Money is an amount in the hotel's base currency, in whole units (no
// fractional sub-units are used).
type Money int64
