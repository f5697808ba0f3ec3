package zone

// Restriction class values observed in the contest rule set.
const (
	ClassCity     = "city"
	ClassWvW      = "wvw"
	ClassInstance = "instance"
	ClassLounge   = "lounge"
)

// Restriction marks one in-game map as off-limits for the contest. Entering
// it turns a plain map-change event into its forbidden variant.
type Restriction struct {
	ZoneID int
	Name   string
	Class  string
}
