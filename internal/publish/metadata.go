package publish

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Metadata describes a legal document for the import API.
type Metadata struct {
	DocumentNumber   string `json:"document_number"`
	DocumentType     string `json:"document_type"`
	IssuingAuthority string `json:"issuing_authority"`
	Title            string `json:"title"`
	IssuedDate       string `json:"issued_date"` // dd/mm/yyyy
}

func (m Metadata) fields() [][2]string {
	return [][2]string{
		{"document_number", m.DocumentNumber},
		{"document_type", m.DocumentType},
		{"issuing_authority", m.IssuingAuthority},
		{"title", m.Title},
		{"issued_date", m.IssuedDate},
	}
}

// Longer names first so "Thông tư liên tịch" wins over "Thông tư".
var documentTypes = []string{
	"Văn bản hợp nhất",
	"Thông tư liên tịch",
	"Bộ luật",
	"Nghị định",
	"Nghị quyết",
	"Thông tư",
	"Quyết định",
	"Pháp lệnh",
	"Chỉ thị",
	"Công văn",
	"Hiến pháp",
	"Luật",
}

var (
	numberRe = regexp.MustCompile(`\d+/(?:\d{4}/)?[\pL\d]+(?:-[\pL\d]+)*`)
	dateRe   = regexp.MustCompile(`(?i)ngày\s+(\d{1,2})\s*(?:tháng|/)\s*(\d{1,2})\s*(?:năm|/)\s*(\d{4})`)
)

// DescribeTitle derives what it can from a document title such as
// "Nghị định 47/2021/NĐ-CP ngày 01 tháng 4 năm 2021 ...".
func DescribeTitle(title string) Metadata {
	m := Metadata{Title: strings.TrimSpace(title)}
	for _, t := range documentTypes {
		if len(m.Title) >= len(t) && strings.EqualFold(m.Title[:len(t)], t) {
			m.DocumentType = t
			break
		}
	}
	m.DocumentNumber = numberRe.FindString(m.Title)
	if d := dateRe.FindStringSubmatch(m.Title); d != nil {
		day, _ := strconv.Atoi(d[1])
		month, _ := strconv.Atoi(d[2])
		m.IssuedDate = fmt.Sprintf("%02d/%02d/%s", day, month, d[3])
	}
	return m
}

// Catalog maps source filenames to curated metadata.
type Catalog map[string]Metadata

// LoadCatalog reads a CSV catalog with a header row naming the columns
// file, document_number, document_type, issuing_authority, title and
// issued_date. Unknown columns are ignored.
func LoadCatalog(path string) (Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return ReadCatalog(f)
}

// ReadCatalog parses a catalog from r.
func ReadCatalog(r io.Reader) (Catalog, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	cat := make(Catalog)
	if len(records) == 0 {
		return cat, nil
	}

	// First row is headers.
	col := make(map[string]int)
	for i, h := range records[0] {
		col[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	if _, ok := col["file"]; !ok {
		return nil, fmt.Errorf("parse catalog: missing %q column", "file")
	}
	get := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	for _, row := range records[1:] {
		file := get(row, "file")
		if file == "" {
			continue
		}
		cat[filepath.Base(file)] = Metadata{
			DocumentNumber:   get(row, "document_number"),
			DocumentType:     get(row, "document_type"),
			IssuingAuthority: get(row, "issuing_authority"),
			Title:            get(row, "title"),
			IssuedDate:       get(row, "issued_date"),
		}
	}
	return cat, nil
}

// Lookup returns the catalog entry for filename, completed with whatever
// DescribeTitle derives from title for the fields the catalog leaves empty.
func (c Catalog) Lookup(filename, title string) Metadata {
	derived := DescribeTitle(title)
	m, ok := c[filepath.Base(filename)]
	if !ok {
		return derived
	}
	if m.Title == "" {
		m.Title = derived.Title
	}
	if m.DocumentType == "" {
		m.DocumentType = derived.DocumentType
	}
	if m.DocumentNumber == "" {
		m.DocumentNumber = derived.DocumentNumber
	}
	if m.IssuedDate == "" {
		m.IssuedDate = derived.IssuedDate
	}
	return m
}
