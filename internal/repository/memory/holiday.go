package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/schedule"
)

type HolidayCalendar struct {
	mu       sync.RWMutex
	holidays map[string][]schedule.Holiday
}

func NewHolidayCalendar(holidays []schedule.Holiday) (*HolidayCalendar, error) {
	c := &HolidayCalendar{}
	if err := c.Replace(holidays); err != nil {
		return nil, err
	}
	return c, nil
}

// Replace swaps the whole calendar, e.g. after a config reload.
func (c *HolidayCalendar) Replace(holidays []schedule.Holiday) error {
	byDate := make(map[string][]schedule.Holiday, len(holidays))
	for _, h := range holidays {
		if _, err := time.Parse("2006-01-02", h.Date); err != nil {
			return fmt.Errorf("%w: %q", schedule.ErrInvalidHolidayDate, h.Date)
		}
		byDate[h.Date] = append(byDate[h.Date], h)
	}

	c.mu.Lock()
	c.holidays = byDate
	c.mu.Unlock()
	return nil
}

func (c *HolidayCalendar) IsHoliday(_ context.Context, date time.Time, department string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, h := range c.holidays[date.Format("2006-01-02")] {
		if h.AppliesTo(department) {
			return true, nil
		}
	}
	return false, nil
}
