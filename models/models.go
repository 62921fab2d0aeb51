package models

// DayKey is the canonical pricing day: 0=Sunday..6=Saturday, 7=holiday.
// Always stored as an integer; the old string/number dual lookup is gone.
type DayKey int8

const (
	Sunday    DayKey = 0
	Monday    DayKey = 1
	Tuesday   DayKey = 2
	Wednesday DayKey = 3
	Thursday  DayKey = 4
	Friday    DayKey = 5
	Saturday  DayKey = 6
	Holiday   DayKey = 7
)

func (d DayKey) Valid() bool { return d >= Sunday && d <= Holiday }

// DefaultLookaheadDays bounds how far ahead a venue sells slots when it has
// no explicit configuration.
const DefaultLookaheadDays = 30

// Booking states. Reserved, occupied and blocked hold the field; available
// and cancelled are re-bookable but retained for audit.
const (
	BookingAvailable = "available"
	BookingReserved  = "reserved"
	BookingOccupied  = "occupied"
	BookingCancelled = "cancelled"
	BookingBlocked   = "blocked"
)

// ActiveBookingStates are the states that make a time range unavailable.
var ActiveBookingStates = []string{BookingReserved, BookingOccupied, BookingBlocked}

// Match states.
const (
	MatchPending   = "pending"
	MatchConfirmed = "confirmed"
	MatchCancelled = "cancelled"
	MatchCompleted = "completed"
)

// Payment states as reported by the provider.
const (
	PaymentPending  = "pending"
	PaymentApproved = "approved"
	PaymentRejected = "rejected"
)

// Venue payment split policies.
const (
	SplitFull      = "full"
	SplitPerPlayer = "split"
)

type TimeSlot struct {
	ID        string `json:"id" bson:"id"`
	StartTime string `json:"startTime" bson:"startTime"` // HH:MM
	EndTime   string `json:"endTime" bson:"endTime"`     // HH:MM
	Active    bool   `json:"active" bson:"active"`
	CreatedAt int64  `json:"createdAt" bson:"createdAt"`
}

type PriceEntry struct {
	ID        string  `json:"id" bson:"id"`
	FieldID   string  `json:"fieldId" bson:"fieldId"`
	SlotID    string  `json:"slotId" bson:"slotId"`
	DayKey    DayKey  `json:"dayKey" bson:"dayKey"`
	Price     float64 `json:"price" bson:"price"`
	Active    bool    `json:"active" bson:"active"`
	UpdatedAt int64   `json:"updatedAt" bson:"updatedAt"`
}

// Booking is an exclusive hold on a field for a time range on a civil date.
// Dates are YYYY-MM-DD strings, never timezone-aware timestamps.
type Booking struct {
	ID        string `json:"id" bson:"id"`
	FieldID   string `json:"fieldId" bson:"fieldId"`
	Date      string `json:"date" bson:"date"` // YYYY-MM-DD
	StartTime string `json:"startTime" bson:"startTime"`
	EndTime   string `json:"endTime" bson:"endTime"`
	State     string `json:"state" bson:"state"`
	MatchID   string `json:"matchId,omitempty" bson:"matchId,omitempty"`
	Reason    string `json:"reason,omitempty" bson:"reason,omitempty"`
	CreatedBy string `json:"createdBy" bson:"createdBy"`
	CreatedAt int64  `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64  `json:"updatedAt" bson:"updatedAt"`
}

// ActiveState reports whether the booking currently holds the field.
func (b *Booking) ActiveState() bool {
	return b.State == BookingReserved || b.State == BookingOccupied || b.State == BookingBlocked
}

type PaymentInfo struct {
	PaymentID string  `json:"paymentId,omitempty" bson:"paymentId,omitempty"`
	State     string  `json:"state" bson:"state"`
	Amount    float64 `json:"amount,omitempty" bson:"amount,omitempty"`
	UpdatedAt int64   `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// Match is the user-facing event that owns exactly one booking.
type Match struct {
	ID             string      `json:"id" bson:"id"`
	FieldID        string      `json:"fieldId" bson:"fieldId"`
	Date           string      `json:"date" bson:"date"`
	StartTime      string      `json:"startTime" bson:"startTime"`
	EndTime        string      `json:"endTime" bson:"endTime"`
	SlotID         string      `json:"slotId,omitempty" bson:"slotId,omitempty"`
	MatchType      int         `json:"matchType" bson:"matchType"` // players per side, e.g. 5
	TotalPrice     float64     `json:"totalPrice" bson:"totalPrice"`
	PricePerPlayer float64     `json:"pricePerPlayer" bson:"pricePerPlayer"`
	PriceID        string      `json:"priceId,omitempty" bson:"priceId,omitempty"`
	State          string      `json:"state" bson:"state"`
	BookingID      string      `json:"bookingId,omitempty" bson:"bookingId,omitempty"`
	Payment        PaymentInfo `json:"payment" bson:"payment"`
	CreatorID      string      `json:"creatorId" bson:"creatorId"`
	CreatedAt      int64       `json:"createdAt" bson:"createdAt"`
	UpdatedAt      int64       `json:"updatedAt" bson:"updatedAt"`
}

type Player struct {
	ID       string `json:"id" bson:"id"`
	MatchID  string `json:"matchId" bson:"matchId"`
	UserID   string `json:"userId,omitempty" bson:"userId,omitempty"`
	Name     string `json:"name" bson:"name"`
	Email    string `json:"email,omitempty" bson:"email,omitempty"`
	Paid     bool   `json:"paid" bson:"paid"`
	JoinedAt int64  `json:"joinedAt" bson:"joinedAt"`
}

type Venue struct {
	ID            string `json:"id" bson:"id"`
	Name          string `json:"name" bson:"name"`
	Address       string `json:"address,omitempty" bson:"address,omitempty"`
	LookaheadDays int    `json:"lookaheadDays" bson:"lookaheadDays"`
	SplitPolicy   string `json:"splitPolicy" bson:"splitPolicy"`
	PhotoURL      string `json:"photoUrl,omitempty" bson:"photoUrl,omitempty"`
	ThumbURL      string `json:"thumbUrl,omitempty" bson:"thumbUrl,omitempty"`
	Active        bool   `json:"active" bson:"active"`
	CreatedAt     int64  `json:"createdAt" bson:"createdAt"`
}

type Field struct {
	ID        string `json:"id" bson:"id"`
	VenueID   string `json:"venueId" bson:"venueId"`
	Name      string `json:"name" bson:"name"`
	Sport     string `json:"sport,omitempty" bson:"sport,omitempty"`
	Active    bool   `json:"active" bson:"active"`
	CreatedAt int64  `json:"createdAt" bson:"createdAt"`
}

type User struct {
	ID           string `json:"id" bson:"id"`
	Username     string `json:"username" bson:"username"`
	Email        string `json:"email,omitempty" bson:"email,omitempty"`
	PasswordHash string `json:"-" bson:"passwordHash"`
	CreatedAt    int64  `json:"createdAt" bson:"createdAt"`
}

// SlotPrice is one sellable offer returned by the availability engine.
type SlotPrice struct {
	Slot  TimeSlot `json:"slot"`
	Price float64  `json:"price"`
}
