package xlsx

import (
	"strings"

	"github.com/ukaji3/tablemod-go/pkg/tablemod/models"
	"github.com/xuri/excelize/v2"
)

// DetectionParams holds parameters for table detection on sheets without
// Excel tables or print areas.
type DetectionParams struct {
	DensityMin       float64
	MinNonemptyCells int
}

// DefaultDetectionParams returns default table detection parameters.
func DefaultDetectionParams() DetectionParams {
	return DetectionParams{
		DensityMin:       0.04,
		MinNonemptyCells: 3,
	}
}

// candidate is a table region found on a sheet before it is wrapped.
type candidate struct {
	name    string
	subtype string
	region  models.Region
	header  *bool
}

// discoverSheet finds the tables of one sheet: its Excel tables if it has
// any, else its print areas, else the bounding box of its non-empty cells.
func discoverSheet(f *excelize.File, sheet string, areas []models.Region, params DetectionParams) ([]candidate, error) {
	tables, err := f.GetTables(sheet)
	if err != nil {
		return nil, err
	}
	var out []candidate
	for _, tbl := range tables {
		region, ok := parseRange(tbl.Range)
		if !ok {
			continue
		}
		out = append(out, candidate{
			name:    sheet + "!" + tbl.Name,
			subtype: tbl.Name,
			region:  region,
			header:  tbl.ShowHeaderRow,
		})
	}
	if len(out) > 0 {
		return out, nil
	}

	if len(areas) == 0 {
		region, ok, err := detectRegion(f, sheet, params)
		if err != nil || !ok {
			return nil, err
		}
		areas = []models.Region{region}
	}
	for _, region := range areas {
		out = append(out, candidate{
			name:    sheet + "!" + rangeName(region),
			subtype: sheet,
			region:  region,
		})
	}
	return out, nil
}

// detectRegion returns the bounding box of the non-empty cells of a sheet when
// it is dense enough to be a table.
func detectRegion(f *excelize.File, sheetName string, params DetectionParams) (models.Region, bool, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return models.Region{}, false, err
	}
	region, filled := occupied(rows)
	if filled == 0 || filled < params.MinNonemptyCells {
		return models.Region{}, false, nil
	}
	if float64(filled)/float64(region.Rows()*region.Cols()) < params.DensityMin {
		return models.Region{}, false, nil
	}
	return region, true, nil
}

// occupied returns the 1-based bounding box of the non-empty cells of rows and
// how many cells are non-empty. Every non-empty cell lies inside the box, so
// one scan gives both.
func occupied(rows [][]string) (models.Region, int) {
	var r models.Region
	filled := 0
	for i, row := range rows {
		for j, cell := range row {
			if cell == "" {
				continue
			}
			if filled == 0 {
				r = models.Region{R1: i + 1, C1: j + 1, R2: i + 1, C2: j + 1}
			}
			filled++
			r.R1, r.R2 = min(r.R1, i+1), max(r.R2, i+1)
			r.C1, r.C2 = min(r.C1, j+1), max(r.C2, j+1)
		}
	}
	return r, filled
}

// printAreas returns the print areas of a workbook by sheet name.
func printAreas(f *excelize.File) map[string][]models.Region {
	result := make(map[string][]models.Region)
	for _, dn := range f.GetDefinedName() {
		if !strings.EqualFold(dn.Name, "_xlnm.Print_Area") {
			continue
		}
		sheetName, areas := parsePrintAreaReference(dn.RefersTo)
		if sheetName == "" {
			sheetName = dn.Scope
		}
		if sheetName != "" && len(areas) > 0 {
			result[sheetName] = append(result[sheetName], areas...)
		}
	}
	return result
}

// parsePrintAreaReference parses a print area reference string.
// Format: 'SheetName'!$A$1:$D$10 or SheetName!$A$1:$D$10, comma separated.
func parsePrintAreaReference(ref string) (string, []models.Region) {
	var areas []models.Region

	var sheetName string
	for _, part := range strings.Split(ref, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		idx := strings.LastIndex(part, "!")
		if idx < 0 {
			continue
		}
		sheet := strings.Trim(part[:idx], "'")
		if sheetName == "" {
			sheetName = sheet
		}
		if area, ok := parseRange(part[idx+1:]); ok {
			areas = append(areas, area)
		}
	}

	return sheetName, areas
}

// parseRange parses a range string like $A$1:$D$10.
func parseRange(rangeStr string) (models.Region, bool) {
	rangeStr = strings.ReplaceAll(rangeStr, "$", "")

	parts := strings.Split(rangeStr, ":")
	if len(parts) != 2 {
		return models.Region{}, false
	}

	startCol, startRow, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return models.Region{}, false
	}

	endCol, endRow, err := excelize.CellNameToCoordinates(parts[1])
	if err != nil {
		return models.Region{}, false
	}

	return models.Region{R1: startRow, C1: startCol, R2: endRow, C2: endCol}, true
}

// rangeName formats a region as A1:D10.
func rangeName(r models.Region) string {
	start, _ := excelize.CoordinatesToCellName(r.C1, r.R1)
	end, _ := excelize.CoordinatesToCellName(r.C2, r.R2)
	return start + ":" + end
}
