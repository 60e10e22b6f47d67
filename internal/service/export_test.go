package service

// Exported aliases so external tests can exercise the pure validators.
var (
	Number         = number
	PositiveInt    = positiveInt
	Price          = price
	NormalizeEmail = normalizeEmail
	ParseRole      = parseRole
	ParseStatus    = parseStatus
	ParseDate      = parseDate
)
