// Package prices maintains the price table: one active price per
// (fieldId, slotId, dayKey). Uniqueness is enforced at the write boundary by
// always upserting on that key, so bulk authoring stays idempotent.
package prices

import (
	"context"
	"time"

	"cancha/faults"
	"cancha/models"
	"cancha/timeutil"
	"cancha/utils"
)

// Store is the narrow persistence surface the price table needs.
type Store interface {
	ActiveSlots(ctx context.Context) ([]models.TimeSlot, error)
	// Find returns faults.ErrNotFound when no active entry matches.
	Find(ctx context.Context, fieldID, slotID string, day models.DayKey) (*models.PriceEntry, error)
	Insert(ctx context.Context, entry *models.PriceEntry) error
	Update(ctx context.Context, id string, price float64) error
	ListForField(ctx context.Context, fieldID string, day models.DayKey) ([]models.PriceEntry, error)
}

type Service struct {
	Store Store
}

// BulkResult reports what a bulk authoring run did.
type BulkResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// Upsert writes one price entry keyed (fieldId, slotId, dayKey); returns
// true when a new row was created.
func (s *Service) Upsert(ctx context.Context, fieldID, slotID string, day models.DayKey, price float64) (bool, error) {
	if fieldID == "" {
		return false, faults.Invalid("fieldId", "required")
	}
	if slotID == "" {
		return false, faults.Invalid("slotId", "required")
	}
	if !day.Valid() {
		return false, faults.Invalid("dayKey", "must be 0-6 or 7 (holiday)")
	}
	if price <= 0 {
		return false, faults.Invalid("price", "must be positive")
	}

	existing, err := s.Store.Find(ctx, fieldID, slotID, day)
	switch {
	case err == nil:
		if err := s.Store.Update(ctx, existing.ID, price); err != nil {
			return false, err
		}
		return false, nil
	case err == faults.ErrNotFound:
		entry := &models.PriceEntry{
			ID:        utils.NewID(),
			FieldID:   fieldID,
			SlotID:    slotID,
			DayKey:    day,
			Price:     price,
			Active:    true,
			UpdatedAt: time.Now().Unix(),
		}
		if err := s.Store.Insert(ctx, entry); err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, err
	}
}

// ApplyBulkPricing fans one price out over days × the active slots fully
// contained in [start,end). Re-running with identical arguments yields the
// same table and zero new rows.
func (s *Service) ApplyBulkPricing(ctx context.Context, fieldID string, days []models.DayKey, start, end string, price float64) (BulkResult, error) {
	var res BulkResult

	rangeStart, err := timeutil.MinuteOfDay(start)
	if err != nil {
		return res, faults.Invalid("timeRange", "start must be HH:MM")
	}
	rangeEnd, err := timeutil.MinuteOfDay(end)
	if err != nil {
		return res, faults.Invalid("timeRange", "end must be HH:MM")
	}
	if rangeStart >= rangeEnd {
		return res, faults.Invalid("timeRange", "end must be after start")
	}
	if len(days) == 0 {
		return res, faults.Invalid("days", "required")
	}
	for _, d := range days {
		if !d.Valid() {
			return res, faults.Invalid("days", "must be 0-6 or 7 (holiday)")
		}
	}

	catalog, err := s.Store.ActiveSlots(ctx)
	if err != nil {
		return res, err
	}

	var matching []models.TimeSlot
	for _, slot := range catalog {
		ss, err1 := timeutil.MinuteOfDay(slot.StartTime)
		se, err2 := timeutil.MinuteOfDay(slot.EndTime)
		if err1 != nil || err2 != nil {
			continue
		}
		if ss >= rangeStart && se <= rangeEnd {
			matching = append(matching, slot)
		}
	}

	for _, day := range days {
		for _, slot := range matching {
			created, err := s.Upsert(ctx, fieldID, slot.ID, day, price)
			if err != nil {
				return res, err
			}
			if created {
				res.Created++
			} else {
				res.Updated++
			}
		}
	}
	return res, nil
}

// PriceBySlot maps slotId → price for a field and day; when legacy duplicate
// entries exist the first match wins.
func (s *Service) PriceBySlot(ctx context.Context, fieldID string, day models.DayKey) (map[string]models.PriceEntry, error) {
	entries, err := s.Store.ListForField(ctx, fieldID, day)
	if err != nil {
		return nil, err
	}
	out := make(map[string]models.PriceEntry, len(entries))
	for _, e := range entries {
		if _, seen := out[e.SlotID]; !seen {
			out[e.SlotID] = e
		}
	}
	return out, nil
}
