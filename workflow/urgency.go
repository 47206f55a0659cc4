package workflow

import (
	"errors"
	"fmt"
	"time"

	"github.com/outagedesk/outage-server/models"
	"github.com/outagedesk/outage-server/utils"
)

var ErrInvalidDate = errors.New("invalid outage date")

type Color string

const (
	Green  Color = "GREEN"
	Yellow Color = "YELLOW"
	Red    Color = "RED"
)

type Urgency struct {
	DaysLeft int    `json:"days_left"`
	Color    Color  `json:"color"`
	Label    string `json:"label"`
}

type threshold struct {
	red    int // daysLeft below this is RED
	yellow int // daysLeft up to and including this is YELLOW
}

// A job still waiting on the regional center needs far more lead time.
var (
	pendingThresholds  = threshold{red: 14, yellow: 28}
	notifiedThresholds = threshold{red: 3, yellow: 6}
)

// ClassifyUrgency works out how many calendar days remain until outageDate
// (YYYY-MM-DD, local midnight in now's location) and colours the job.
func ClassifyUrgency(outageDate string, nakhonStatus *string, now time.Time) (Urgency, error) {
	day, err := utils.ParseLocalDate(outageDate, now.Location())
	if err != nil {
		return Urgency{}, fmt.Errorf("%w: %q", ErrInvalidDate, outageDate)
	}
	daysLeft := utils.DaysBetween(now, day)
	return Urgency{
		DaysLeft: daysLeft,
		Color:    urgencyColor(daysLeft, models.ParseNakhonStatus(nakhonStatus)),
		Label:    DaysLabel(daysLeft),
	}, nil
}

func urgencyColor(daysLeft int, nakhon models.NakhonStatus) Color {
	if daysLeft < 0 {
		return Red
	}
	th := notifiedThresholds
	if nakhon == models.NakhonPending {
		th = pendingThresholds
	}
	switch {
	case daysLeft < th.red:
		return Red
	case daysLeft <= th.yellow:
		return Yellow
	default:
		return Green
	}
}

// DaysLabel renders a day count for the job list.
func DaysLabel(daysLeft int) string {
	switch {
	case daysLeft < 0:
		return fmt.Sprintf("เลยกำหนด %d วัน", -daysLeft)
	case daysLeft == 0:
		return "วันนี้"
	case daysLeft == 1:
		return "พรุ่งนี้"
	default:
		return fmt.Sprintf("อีก %d วัน", daysLeft)
	}
}
