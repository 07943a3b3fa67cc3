package loader

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"quote-search/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Load picks a loader by file extension (.csv, .json, .yaml/.yml).
func Load(filePath string) ([]models.Candidate, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".csv":
		return LoadCSV(filePath)
	case ".json":
		return LoadJSON(filePath)
	case ".yaml", ".yml":
		return LoadYAML(filePath)
	default:
		return nil, fmt.Errorf("unsupported catalog format: %s", filePath)
	}
}

// LoadCSV reads Symbol,Name rows. A header row starting with "Symbol" or
// "Ticker" is skipped.
func LoadCSV(filePath string) ([]models.Candidate, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	if len(records) > 0 && len(records[0]) > 0 {
		switch strings.ToLower(strings.TrimSpace(records[0][0])) {
		case "symbol", "ticker":
			records = records[1:]
		}
	}

	var candidates []models.Candidate
	for _, record := range records {
		if len(record) < 2 {
			continue
		}
		c := models.Candidate{
			Ticker: strings.TrimSpace(record[0]),
			Name:   strings.TrimSpace(record[1]),
		}
		if c.Ticker == "" {
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// LoadJSON accepts either an array of {"ticker","name"} objects or an array
// of "TICKER — Name" strings.
func LoadJSON(filePath string) ([]models.Candidate, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var objects []models.Candidate
	if err := json.Unmarshal(data, &objects); err == nil {
		return compact(objects), nil
	}

	var texts []string
	if err := json.Unmarshal(data, &texts); err != nil {
		return nil, fmt.Errorf("decode json catalog: %w", err)
	}
	return fromTexts(texts), nil
}

type yamlCatalog struct {
	Candidates []models.Candidate `yaml:"candidates"`
	Entries    []string           `yaml:"entries"`
}

// LoadYAML reads a document with a "candidates" list of ticker/name pairs
// and/or an "entries" list of "TICKER — Name" strings.
func LoadYAML(filePath string) ([]models.Candidate, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var doc yamlCatalog
	if err := yaml.NewDecoder(f).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode yaml catalog: %w", err)
	}
	return append(compact(doc.Candidates), fromTexts(doc.Entries)...), nil
}

func fromTexts(texts []string) []models.Candidate {
	out := make([]models.Candidate, 0, len(texts))
	for _, t := range texts {
		if c := ParseCandidate(t); c.Ticker != "" {
			out = append(out, c)
		}
	}
	return out
}

func compact(in []models.Candidate) []models.Candidate {
	out := make([]models.Candidate, 0, len(in))
	for _, c := range in {
		c.Ticker = strings.TrimSpace(c.Ticker)
		c.Name = strings.TrimSpace(c.Name)
		if c.Ticker != "" {
			out = append(out, c)
		}
	}
	return out
}
