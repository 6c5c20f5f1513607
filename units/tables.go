package units

// Category groups unit symbols that convert between each other. Every symbol
// belongs to exactly one category and every category has one base unit with
// factor 1.
type Category string

const (
	Length   Category = "length"
	Area     Category = "area"
	Volume   Category = "volume"
	Weight   Category = "weight"
	Count    Category = "count"
	Time     Category = "time"
	Currency Category = "currency"
)

// Unit ties a display symbol to its category and the linear factor that
// converts a display-unit amount into the category's base unit.
type Unit struct {
	Symbol       string
	Category     Category
	FactorToBase float64
}

// Base units: m (length), m2 (area), m3 (volume), kg (weight),
// pcs (count), h (time), unit of currency (currency).
var unitTable = map[string]Unit{
	// Length (base: metre)
	"mm": {Symbol: "mm", Category: Length, FactorToBase: 0.001},
	"cm": {Symbol: "cm", Category: Length, FactorToBase: 0.01},
	"m":  {Symbol: "m", Category: Length, FactorToBase: 1},
	"km": {Symbol: "km", Category: Length, FactorToBase: 1000},
	"in": {Symbol: "in", Category: Length, FactorToBase: 0.0254},
	"ft": {Symbol: "ft", Category: Length, FactorToBase: 0.3048},

	// Area (base: square metre)
	"mm2": {Symbol: "mm2", Category: Area, FactorToBase: 1e-6},
	"cm2": {Symbol: "cm2", Category: Area, FactorToBase: 1e-4},
	"m2":  {Symbol: "m2", Category: Area, FactorToBase: 1},
	"ft2": {Symbol: "ft2", Category: Area, FactorToBase: 0.09290304},

	// Volume (base: cubic metre)
	"ml": {Symbol: "ml", Category: Volume, FactorToBase: 1e-6},
	"l":  {Symbol: "l", Category: Volume, FactorToBase: 1e-3},
	"m3": {Symbol: "m3", Category: Volume, FactorToBase: 1},

	// Weight (base: kilogram)
	"mg": {Symbol: "mg", Category: Weight, FactorToBase: 1e-6},
	"g":  {Symbol: "g", Category: Weight, FactorToBase: 1e-3},
	"kg": {Symbol: "kg", Category: Weight, FactorToBase: 1},
	"t":  {Symbol: "t", Category: Weight, FactorToBase: 1000},
	"lb": {Symbol: "lb", Category: Weight, FactorToBase: 0.45359237},

	// Count (base: piece)
	"pcs":  {Symbol: "pcs", Category: Count, FactorToBase: 1},
	"pair": {Symbol: "pair", Category: Count, FactorToBase: 2},
	"doz":  {Symbol: "doz", Category: Count, FactorToBase: 12},

	// Time (base: hour)
	"min": {Symbol: "min", Category: Time, FactorToBase: 1.0 / 60.0},
	"h":   {Symbol: "h", Category: Time, FactorToBase: 1},
	"day": {Symbol: "day", Category: Time, FactorToBase: 24},

	// Price-per-unit symbols. These exist so material prices can be labelled
	// ("per m", "per kg", ...) but a price is already a base amount: factor 1.
	"per_m":   {Symbol: "per_m", Category: Currency, FactorToBase: 1},
	"per_m2":  {Symbol: "per_m2", Category: Currency, FactorToBase: 1},
	"per_m3":  {Symbol: "per_m3", Category: Currency, FactorToBase: 1},
	"per_kg":  {Symbol: "per_kg", Category: Currency, FactorToBase: 1},
	"per_pcs": {Symbol: "per_pcs", Category: Currency, FactorToBase: 1},
	"per_h":   {Symbol: "per_h", Category: Currency, FactorToBase: 1},
}

var baseSymbols = map[Category]string{
	Length:   "m",
	Area:     "m2",
	Volume:   "m3",
	Weight:   "kg",
	Count:    "pcs",
	Time:     "h",
	Currency: "per_pcs",
}
