package schema

import (
	"strconv"

	"github.com/benvon/joyjar/internal/models"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

func backfillRitualText(doc []byte) ([]byte, error) {
	settings := gjson.GetBytes(doc, "settings")
	if !settings.IsObject() || settings.Get("ritualText").Exists() {
		return doc, nil
	}
	return sjson.SetBytes(doc, "settings.ritualText", models.DefaultRitualText)
}

// backfillDailyReminder fills in a missing reminder and resets unknown values
func backfillDailyReminder(doc []byte) ([]byte, error) {
	settings := gjson.GetBytes(doc, "settings")
	if !settings.IsObject() {
		return doc, nil
	}
	reminder := settings.Get("dailyReminder")
	if reminder.Exists() && models.DailyReminder(reminder.String()).Valid() {
		return doc, nil
	}
	return sjson.SetBytes(doc, "settings.dailyReminder", string(models.ReminderNone))
}

// backfillCategories replaces a missing or non-array category list with the
// defaults, then drops non-strings and duplicates and makes sure "Other" is present.
func backfillCategories(doc []byte) ([]byte, error) {
	categories := gjson.GetBytes(doc, "categories")
	if !categories.IsArray() {
		return sjson.SetBytes(doc, "categories", models.DefaultCategories())
	}

	clean := make([]string, 0)
	seen := make(map[string]struct{})
	changed := false
	categories.ForEach(func(_, value gjson.Result) bool {
		if value.Type != gjson.String || value.String() == "" {
			changed = true
			return true
		}
		name := value.String()
		if _, dup := seen[name]; dup {
			changed = true
			return true
		}
		seen[name] = struct{}{}
		clean = append(clean, name)
		return true
	})
	if _, ok := seen[models.OtherCategory]; !ok {
		clean = append(clean, models.OtherCategory)
		changed = true
	}
	if !changed {
		return doc, nil
	}
	return sjson.SetBytes(doc, "categories", clean)
}

func backfillAnalysisHistory(doc []byte) ([]byte, error) {
	if gjson.GetBytes(doc, "analysisHistory").IsArray() {
		return doc, nil
	}
	return sjson.SetBytes(doc, "analysisHistory", []models.AIAnalysis{})
}

func backfillWinTags(doc []byte) ([]byte, error) {
	wins := gjson.GetBytes(doc, "wins")
	if !wins.IsArray() {
		return doc, nil
	}
	var missing []int
	idx := 0
	wins.ForEach(func(_, win gjson.Result) bool {
		if win.IsObject() && !win.Get("tags").IsArray() {
			missing = append(missing, idx)
		}
		idx++
		return true
	})
	var err error
	for _, i := range missing {
		doc, err = sjson.SetBytes(doc, "wins."+strconv.Itoa(i)+".tags", []string{})
		if err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func dropObsoleteSettings(doc []byte) ([]byte, error) {
	var err error
	for _, key := range ObsoleteSettings {
		path := "settings." + key
		if !gjson.GetBytes(doc, path).Exists() {
			continue
		}
		doc, err = sjson.DeleteBytes(doc, path)
		if err != nil {
			return nil, err
		}
	}
	return doc, nil
}
