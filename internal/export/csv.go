// Package export renders admin exports as CSV with proper quoting and
// escaping, replacing ad hoc per-screen string building.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// CSV encodes a header row plus data rows. Fields containing delimiters,
// quotes or newlines are escaped by the encoder.
func CSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for i, row := range rows {
		if len(row) != len(header) {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", i, len(row), len(header))
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Send writes a CSV attachment response.
func Send(c *fiber.Ctx, filename string, header []string, rows [][]string) error {
	data, err := CSV(header, rows)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to build export")
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
