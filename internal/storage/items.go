package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kalambet/dolater/internal/classify"
	"github.com/kalambet/dolater/internal/content"
)

const itemColumns = `id, user_id, title, summary, url, category, tags, date_added, priority,
	has_notes, has_checklist, reminder_set, platform, action_type, user_notes, transcript, is_completed`

// SaveItem inserts it or replaces the stored copy with the same ID.
func (s *Store) SaveItem(it content.Item) error {
	it = it.Normalize()
	if it.DateAdded.IsZero() {
		it.DateAdded = time.Now()
	}
	tags, err := json.Marshal(it.Tags)
	if err != nil {
		return fmt.Errorf("encoding tags: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO items (`+itemColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id, title = excluded.title, summary = excluded.summary,
			url = excluded.url, category = excluded.category, tags = excluded.tags,
			date_added = excluded.date_added, priority = excluded.priority,
			has_notes = excluded.has_notes, has_checklist = excluded.has_checklist,
			reminder_set = excluded.reminder_set, platform = excluded.platform,
			action_type = excluded.action_type, user_notes = excluded.user_notes,
			transcript = excluded.transcript, is_completed = excluded.is_completed`,
		it.ID, it.UserID, it.Title, it.Summary, it.URL, string(it.Category), string(tags),
		formatTime(it.DateAdded), string(it.Priority),
		it.HasNotes, it.HasChecklist, it.ReminderSet, it.Platform, string(it.ActionType),
		it.UserNotes, it.Transcript, it.IsCompleted,
	)
	if err != nil {
		return fmt.Errorf("saving item %s: %w", it.ID, err)
	}
	return nil
}

func (s *Store) GetItem(id string) (content.Item, error) {
	row := s.db.QueryRow(`SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	it, err := scanItem(row)
	if err == sql.ErrNoRows {
		return content.Item{}, ErrNotFound
	}
	return it, err
}

// ListItems returns the items of userID, newest first.
func (s *Store) ListItems(userID string) ([]content.Item, error) {
	rows, err := s.db.Query(`SELECT `+itemColumns+` FROM items WHERE user_id = ? ORDER BY date_added DESC, id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	items := []content.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *Store) DeleteItem(id string) error {
	res, err := s.db.Exec(`DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

// UpdateClassification overwrites the derived fields of an item.
func (s *Store) UpdateClassification(id string, r classify.Result) error {
	tags, err := json.Marshal(r.Tags)
	if err != nil {
		return fmt.Errorf("encoding tags: %w", err)
	}
	res, err := s.db.Exec(`
		UPDATE items SET summary = ?, category = ?, tags = ?, priority = ?, action_type = ?, classified_at = ?
		WHERE id = ?`,
		r.Summary, string(content.ParseCategory(string(r.Category))), string(tags),
		string(content.ParsePriority(string(r.Priority))), string(content.ParseActionType(string(r.ActionType))),
		formatTime(time.Now()), id,
	)
	if err != nil {
		return fmt.Errorf("updating classification for %s: %w", id, err)
	}
	return expectOneRow(res)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(sc scanner) (content.Item, error) {
	var it content.Item
	var category, tags, dateAdded, priority, actionType string
	err := sc.Scan(
		&it.ID, &it.UserID, &it.Title, &it.Summary, &it.URL, &category, &tags, &dateAdded, &priority,
		&it.HasNotes, &it.HasChecklist, &it.ReminderSet, &it.Platform, &actionType,
		&it.UserNotes, &it.Transcript, &it.IsCompleted,
	)
	if err != nil {
		return content.Item{}, err
	}
	if err := json.Unmarshal([]byte(tags), &it.Tags); err != nil {
		return content.Item{}, fmt.Errorf("decoding tags for %s: %w", it.ID, err)
	}
	if it.DateAdded, err = parseTime(dateAdded); err != nil {
		return content.Item{}, fmt.Errorf("parsing date_added for %s: %w", it.ID, err)
	}
	it.Category = content.Category(category)
	it.Priority = content.Priority(priority)
	it.ActionType = content.ActionType(actionType)
	return it.Normalize(), nil
}
