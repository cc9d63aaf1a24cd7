package services

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"faq-bot/models"
)

// KnowledgeStore serves per-country knowledge. Absent countries or missing
// data files yield empty slices, never errors: a country without data simply
// has nothing to answer from.
type KnowledgeStore interface {
	FAQs(country models.Country) []models.FAQEntry
	Addresses(country models.Country) []models.Address
	Schedules(country models.Country) []models.Schedule
}

// FileStore reads knowledge from per-country JSON files under root:
// root/<cc>/faqs.json, direcciones.json, horarios.json.
type FileStore struct {
	root string
}

func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

func (s *FileStore) FAQs(country models.Country) []models.FAQEntry {
	var entries []models.FAQEntry
	s.loadJSON(country, "faqs.json", &entries)
	return entries
}

func (s *FileStore) Addresses(country models.Country) []models.Address {
	var addresses []models.Address
	s.loadJSON(country, "direcciones.json", &addresses)
	return addresses
}

func (s *FileStore) Schedules(country models.Country) []models.Schedule {
	var schedules []models.Schedule
	s.loadJSON(country, "horarios.json", &schedules)
	return schedules
}

func (s *FileStore) loadJSON(country models.Country, name string, out any) {
	folder := country.Folder()
	if folder == "" {
		return
	}
	path := filepath.Join(s.root, folder, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Failed to read knowledge file", "path", path, "error", err)
		}
		return
	}
	if err := json.Unmarshal(data, out); err != nil {
		slog.Warn("Failed to parse knowledge file", "path", path, "error", err)
	}
}
