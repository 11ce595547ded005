// Package importer converts the farm's legacy spreadsheet workbook into a
// backup document that can be merged into the store.
package importer

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/mamadbah2/ganaderia/internal/domain/models"
	"github.com/mamadbah2/ganaderia/internal/service/backup"
	"github.com/mamadbah2/ganaderia/internal/service/finance"
)

// Sheet names read from the workbook. Missing sheets are skipped.
const (
	SheetAnimals     = "Bovinos_Activos"
	SheetRawBovines  = "Bovinos_Bruto"
	SheetMilk        = "Ordeño"
	SheetMedications = "Medicamentos"
	SheetRepro       = "Reproduccion"
	SheetCheeseSales = "Venta_Queso"
	SheetMilkBuy     = "Compra_Leche"
	SheetTransport   = "Transporte_Leche"
	SheetFixedCosts  = "Gastos_Fijos"
)

// ImportUserID owns every imported record.
const ImportUserID = "user_import"

var (
	isoDatePattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	localDatePattern = regexp.MustCompile(`(\d{1,2})[-/](\d{1,2})[-/](\d{2,4})`)
	nonDigits        = regexp.MustCompile(`\D`)
	slugSpaces       = regexp.MustCompile(`\s+`)
	slugInvalid      = regexp.MustCompile(`[^a-z0-9_áéíóúñ]`)
)

// Importer reads workbooks.
type Importer struct {
	logger *zap.Logger
	now    func() time.Time
}

// New constructs an Importer.
func New(now func() time.Time, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &Importer{logger: logger, now: now}
}

// FromWorkbook parses an .xlsx stream. Record ids are derived from row order,
// so importing the same workbook twice overwrites the first import. Records
// carry a zero CreatedAt so that spreadsheet history never outranks records
// entered in the app.
func (im *Importer) FromWorkbook(r io.Reader) (backup.Document, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return backup.Document{}, fmt.Errorf("open workbook: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			im.logger.Warn("close workbook", zap.Error(err))
		}
	}()

	now := im.now()
	c := &conversion{
		wb:     f,
		logger: im.logger,
		byTag:  map[string]string{},
		byName: map[string]string{},
	}
	c.data.Users = []models.User{{ID: ImportUserID, Name: "Importado"}}

	steps := []func() error{
		c.animals,
		c.rawBovines,
		c.milk,
		c.medications,
		c.repro,
		c.cheeseSales,
		c.milkPurchases,
		c.transport,
		c.fixedCosts,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return backup.Document{}, err
		}
	}

	im.logger.Info("workbook converted",
		zap.Int("animals", len(c.data.Animals)),
		zap.Int("milk", len(c.data.Milk)),
		zap.Int("boosters", len(c.data.Boosters)),
		zap.Int("repro", len(c.data.Repro)),
	)
	return backup.Document{ExportedAt: now, Data: c.data}, nil
}

type conversion struct {
	wb     *excelize.File
	logger *zap.Logger
	data   backup.Data
	byTag  map[string]string
	byName map[string]string
}

// sheet is a header-indexed view of one worksheet.
type sheet struct {
	header  []string
	columns map[string]int
	rows    [][]string
}

func (c *conversion) sheet(name string) (*sheet, error) {
	if idx, _ := c.wb.GetSheetIndex(name); idx < 0 {
		c.logger.Debug("sheet not present", zap.String("sheet", name))
		return nil, nil
	}
	rows, err := c.wb.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	s := &sheet{header: rows[0], columns: map[string]int{}, rows: rows[1:]}
	for i, h := range rows[0] {
		if key := strings.ToLower(strings.TrimSpace(h)); key != "" {
			s.columns[key] = i
		}
	}
	return s, nil
}

// get returns the first aliased column present in the row.
func (s *sheet) get(row []string, names ...string) string {
	for _, n := range names {
		i, ok := s.columns[strings.ToLower(n)]
		if ok && i < len(row) {
			return strings.TrimSpace(row[i])
		}
	}
	return ""
}

// extras keeps every non-empty cell keyed by its slugged header.
func (s *sheet) extras(row []string) map[string]any {
	out := map[string]any{}
	for i, h := range s.header {
		key := slugKey(h)
		if key == "" || i >= len(row) {
			continue
		}
		if v := strings.TrimSpace(row[i]); v != "" {
			out[key] = v
		}
	}
	return out
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func (c *conversion) animals() error {
	s, err := c.sheet(SheetAnimals)
	if err != nil || s == nil {
		return err
	}

	n := 0
	for _, row := range s.rows {
		tag := s.get(row, "arete")
		name := s.get(row, "nombre/arete", "nombre")
		if tag == "" && isDigits(name) {
			tag, name = name, ""
		}
		if tag == "" && name == "" {
			continue
		}

		n++
		a := models.Animal{
			ID:        importID("ani", n),
			Tag:       tag,
			Name:      name,
			Farm:      s.get(row, "finca"),
			Sex:       models.ParseSex(s.get(row, "sexo")),
			Breed:     s.get(row, "raza"),
			Extras:    s.extras(row),
			CreatedBy: ImportUserID,
		}
		c.data.Animals = append(c.data.Animals, a)
		if a.Tag != "" {
			c.byTag[a.Tag] = a.ID
		}
		if a.Name != "" {
			c.byName[strings.ToLower(a.Name)] = a.ID
		}
	}
	return nil
}

// resolveAnimal matches tag digits first, then the raw tag, then the name.
func (c *conversion) resolveAnimal(values ...string) string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if digits := nonDigits.ReplaceAllString(v, ""); digits != "" {
			if id, ok := c.byTag[digits]; ok {
				return id
			}
		}
		if id, ok := c.byTag[v]; ok {
			return id
		}
		if id, ok := c.byName[strings.ToLower(v)]; ok {
			return id
		}
	}
	return ""
}

func (c *conversion) rawBovines() error {
	s, err := c.sheet(SheetRawBovines)
	if err != nil || s == nil {
		return err
	}

	n := 0
	for _, row := range s.rows {
		if blank(row) {
			continue
		}
		n++
		c.data.RawBovines = append(c.data.RawBovines, models.RawBovine{
			ID:         importID("bru", n),
			TagName:    s.get(row, "nombre/arete", "nombre", "arete"),
			StatusNote: s.get(row, "estado", "estado_nota", "nota", "observacion"),
			Age:        s.get(row, "edad", "edad_meses", "meses"),
			Weight:     s.get(row, "peso", "peso_kg", "kg"),
			Extras:     s.extras(row),
			CreatedBy:  ImportUserID,
		})
	}
	return nil
}

func (c *conversion) milk() error {
	s, err := c.sheet(SheetMilk)
	if err != nil || s == nil {
		return err
	}

	n := 0
	for _, row := range s.rows {
		date := parseDate(s.get(row, "fecha"))
		if date == "" {
			continue
		}
		animalID := c.resolveAnimal(s.get(row, "arete"), s.get(row, "nombre", "nombre/arete"))
		if animalID == "" {
			c.logger.Debug("skip milk row without known animal", zap.String("date", date))
			continue
		}

		morning := parseNumber(s.get(row, "litros mañana", "litros manana", "mañana", "manana"))
		evening := parseNumber(s.get(row, "litros tarde", "tarde"))
		n++
		c.data.Milk = append(c.data.Milk, models.MilkEntry{
			ID:        importID("milk", n),
			Date:      date,
			AnimalID:  animalID,
			Morning:   morning,
			Evening:   evening,
			Total:     morning + evening,
			CreatedBy: ImportUserID,
		})
	}
	return nil
}

// medications fills meds, and for rows tied to a known animal also a health
// event plus one pending booster per d/m/yy date found in the plan or
// procedure text.
func (c *conversion) medications() error {
	s, err := c.sheet(SheetMedications)
	if err != nil || s == nil {
		return err
	}

	events, boosters := 0, 0
	for _, row := range s.rows {
		if blank(row) {
			continue
		}
		farm := s.get(row, "finca")
		name := s.get(row, "nombre", "nombre/arete")
		procedure := s.get(row, "medicamento/procedimiento", "procedimiento", "medicamento", "tratamiento")
		plan := s.get(row, "plan", "dosis", "detalle")
		date := parseDate(s.get(row, "fecha", "fecha_aplicacion", "dia"))
		animalID := c.resolveAnimal(s.get(row, "arete", "id", "codigo"), name)

		events++
		c.data.Medications = append(c.data.Medications, models.Medication{
			ID:          importID("med", events),
			AnimalID:    animalID,
			Name:        name,
			Date:        date,
			Procedure:   procedure,
			Responsible: s.get(row, "responsable", "veterinario", "aplico"),
			Plan:        plan,
			Cost:        s.get(row, "costo", "valor", "precio"),
			Farm:        farm,
			Notes:       s.get(row, "notas", "observacion", "obs"),
			CreatedBy:   ImportUserID,
		})

		if animalID == "" {
			continue
		}

		event := models.HealthEvent{
			ID:        importID("hev", events),
			AnimalID:  animalID,
			Procedure: firstNonEmpty(procedure, plan, "Medicamento"),
			Date:      date,
			CreatedBy: ImportUserID,
		}
		c.data.HealthEvents = append(c.data.HealthEvents, event)

		for _, ref := range embeddedDates(plan + " " + procedure) {
			boosters++
			c.data.Boosters = append(c.data.Boosters, models.Booster{
				ID:        importID("boo", boosters),
				EventID:   event.ID,
				AnimalID:  animalID,
				Procedure: firstNonEmpty(procedure, "Refuerzo"),
				RefDate:   ref,
				Farm:      farm,
				Status:    models.BoosterPending,
				CreatedBy: ImportUserID,
			})
		}
	}
	return nil
}

func (c *conversion) repro() error {
	s, err := c.sheet(SheetRepro)
	if err != nil || s == nil {
		return err
	}

	n := 0
	for _, row := range s.rows {
		animalID := c.resolveAnimal(s.get(row, "arete"), s.get(row, "nombre", "nombre/arete"))
		if animalID == "" {
			continue
		}
		n++
		c.data.Repro = append(c.data.Repro, models.ReproRecord{
			ID:           importID("rep", n),
			AnimalID:     animalID,
			Parturition:  parseDate(s.get(row, "fecha último parto", "fecha ultimo parto", "ultimo parto", "parto")),
			LastHeat:     parseDate(s.get(row, "fecha último celo", "fecha ultimo celo", "ultimo celo", "celo")),
			Insemination: parseDate(s.get(row, "fecha inseminación", "fecha inseminacion", "inseminacion")),
			Pregnancy:    models.ParsePregnancy(s.get(row, "diagnóstico preñez (si/no)", "diagnostico preñez (si/no)", "preñez", "prenhez")),
			CreatedBy:    ImportUserID,
		})
	}
	return nil
}

func (c *conversion) cheeseSales() error {
	s, err := c.sheet(SheetCheeseSales)
	if err != nil || s == nil {
		return err
	}

	for i, row := range s.rows {
		date := parseDate(s.get(row, "fecha"))
		if date == "" {
			continue
		}
		pounds := parseNumber(s.get(row, "libras"))
		price := parseNumber(s.get(row, "precio (cop)", "precio"))
		c.data.CheeseSales = append(c.data.CheeseSales, models.CheeseSale{
			ID:            importID("sale", i+1),
			Date:          date,
			Client:        s.get(row, "cliente"),
			Pounds:        pounds,
			PricePerPound: price,
			Total:         totalOr(s.get(row, "total (cop)", "total"), pounds, price),
			CreatedBy:     ImportUserID,
		})
	}
	return nil
}

func (c *conversion) milkPurchases() error {
	s, err := c.sheet(SheetMilkBuy)
	if err != nil || s == nil {
		return err
	}

	for i, row := range s.rows {
		period := s.get(row, "periodo")
		rawLiters := s.get(row, "litros")
		if period == "" && rawLiters == "" {
			continue
		}
		liters := parseNumber(rawLiters)
		price := parseNumber(s.get(row, "valor/litro (cop)", "valor/litro"))
		c.data.MilkPurchases = append(c.data.MilkPurchases, models.MilkPurchase{
			ID:            importID("buy", i+1),
			Period:        period,
			Liters:        liters,
			PricePerLiter: price,
			Total:         totalOr(s.get(row, "total (cop)", "total"), liters, price),
			CreatedBy:     ImportUserID,
		})
	}
	return nil
}

func (c *conversion) transport() error {
	s, err := c.sheet(SheetTransport)
	if err != nil || s == nil {
		return err
	}

	for i, row := range s.rows {
		period := s.get(row, "periodo")
		rawValue := s.get(row, "valor transporte (cop)", "valor transporte")
		if period == "" && rawValue == "" {
			continue
		}
		value := parseNumber(rawValue)
		qty := parseNumber(s.get(row, "cantidad"))
		c.data.MilkTransports = append(c.data.MilkTransports, models.MilkTransport{
			ID:        importID("tm", i+1),
			Period:    period,
			Value:     value,
			Quantity:  qty,
			Total:     totalOr(s.get(row, "total (cop)", "total"), value, qty),
			CreatedBy: ImportUserID,
		})
	}
	return nil
}

func (c *conversion) fixedCosts() error {
	s, err := c.sheet(SheetFixedCosts)
	if err != nil || s == nil {
		return err
	}

	for i, row := range s.rows {
		concept := s.get(row, "concepto")
		rawValue := s.get(row, "valor mensual (cop)", "valor mensual")
		if concept == "" && rawValue == "" {
			continue
		}
		c.data.FixedCosts = append(c.data.FixedCosts, models.FixedCost{
			ID:           importID("fx", i+1),
			Concept:      concept,
			MonthlyValue: parseNumber(rawValue),
			CreatedBy:    ImportUserID,
		})
	}
	return nil
}

func importID(prefix string, n int) string {
	return fmt.Sprintf("%s_import_%d", prefix, n)
}

// parseDate normalizes spreadsheet serial dates, ISO text and d/m/y text
// (two or four digit year) to YYYY-MM-DD. Anything else becomes empty.
func parseDate(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if iso := isoDatePattern.FindString(value); iso != "" {
		return iso
	}
	if serial, err := decimal.NewFromString(value); err == nil {
		if !serial.IsPositive() {
			return ""
		}
		t, err := excelize.ExcelDateToTime(serial.InexactFloat64(), false)
		if err != nil {
			return ""
		}
		return t.Format("2006-01-02")
	}
	if m := localDatePattern.FindStringSubmatch(value); m != nil {
		return localDate(m[1], m[2], m[3])
	}
	return ""
}

// embeddedDates extracts every valid d/m/y date from free text.
func embeddedDates(text string) []string {
	var out []string
	for _, m := range localDatePattern.FindAllStringSubmatch(text, -1) {
		if d := localDate(m[1], m[2], m[3]); d != "" {
			out = append(out, d)
		}
	}
	return out
}

func localDate(day, month, year string) string {
	if len(year) == 2 {
		year = "20" + year
	}
	t, err := time.Parse("2-1-2006", day+"-"+month+"-"+year)
	if err != nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func parseNumber(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}

// totalOr prefers the workbook's own total and falls back to a * b.
func totalOr(raw string, a, b float64) float64 {
	if t := parseNumber(raw); t != 0 {
		return t
	}
	return finance.LineTotal(a, b)
}

func slugKey(header string) string {
	s := strings.ToLower(strings.TrimSpace(header))
	s = slugSpaces.ReplaceAllString(s, "_")
	s = slugInvalid.ReplaceAllString(s, "")
	return strings.Trim(s, "_")
}

func isDigits(s string) bool {
	return s != "" && nonDigits.FindStringIndex(s) == nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
