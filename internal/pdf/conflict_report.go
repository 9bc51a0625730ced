package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"

	"muniplan/internal/models"
)

// Generator renders the conflict-analysis export handed to coordinators.
type Generator interface {
	GenerateConflictReport(project *models.Project, reports []models.ConflictReport) (string, error)
}

type ReportGenerator struct {
	RootDir  string // storage root, e.g. "./files"
	fontName string
}

func NewReportGenerator(rootDir string) *ReportGenerator {
	return &ReportGenerator{
		RootDir:  filepath.Clean(rootDir),
		fontName: "Helvetica",
	}
}

// GenerateConflictReport writes the PDF and returns its absolute path.
func (g *ReportGenerator) GenerateConflictReport(project *models.Project, reports []models.ConflictReport) (string, error) {
	filename := fmt.Sprintf("conflicts_project_%d_%s.pdf", project.ID, time.Now().Format("20060102"))
	absPath, err := g.ensureTarget(filename)
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Conflict analysis: %s", project.Title), false)
	pdf.SetAuthor("Municipal Coordination Office", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 10, "PROJECT CONFLICT ANALYSIS", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 12)
	sub := fmt.Sprintf("Generated %s", time.Now().Format("2006-01-02"))
	pdf.CellFormat(0, 7, sub, "", 1, "C", false, 0, "")
	g.hr(pdf)
	pdf.Ln(3)

	g.sectionTitle(pdf, "Project")
	g.kvLine(pdf, "Title", project.Title)
	g.kvLine(pdf, "Department", project.Department)
	g.kvLine(pdf, "Window", fmt.Sprintf("%s to %s",
		models.FormatDate(project.StartDate), models.FormatDate(project.EndDate)))
	g.kvLine(pdf, "Site", fmt.Sprintf("%.5f, %.5f", project.Location.Lat, project.Location.Lng))
	pdf.Ln(2)
	g.hr(pdf)

	g.sectionTitle(pdf, fmt.Sprintf("Detected conflicts (%d)", len(reports)))
	if len(reports) == 0 {
		pdf.SetFont(g.fontName, "", 11)
		pdf.MultiCell(0, 6, "No conflicting active projects were found for this site and window.", "", "L", false)
	}
	for i, r := range reports {
		pdf.SetFont(g.fontName, "B", 11)
		pdf.CellFormat(0, 6, fmt.Sprintf("%d. %s (%s)", i+1, r.ProjectTitle, r.Department), "", 1, "L", false, 0, "")
		pdf.SetFont(g.fontName, "", 11)
		g.kvLine(pdf, "Distance", fmt.Sprintf("%.2f km", r.DistanceKm))
		g.kvLine(pdf, "Type", string(r.Type))
		g.kvLine(pdf, "Severity", fmt.Sprintf("%.2f", r.Severity))
		pdf.MultiCell(0, 6, r.Recommendation, "", "L", false)
		pdf.Ln(2)
	}

	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(g.fontName, "", 10)
		pdf.CellFormat(0, 10,
			fmt.Sprintf("Page %d/{nb}", pdf.PageNo()),
			"", 0, "C", false, 0, "",
		)
	})

	if err := pdf.OutputFileAndClose(absPath); err != nil {
		return "", err
	}
	return absPath, nil
}

func (g *ReportGenerator) sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
}

func (g *ReportGenerator) kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(45, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func (g *ReportGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}

func (g *ReportGenerator) ensureTarget(filename string) (string, error) {
	if err := os.MkdirAll(g.RootDir, 0o755); err != nil {
		return "", fmt.Errorf("create files dir: %w", err)
	}
	filename = filepath.Base(filename)
	return filepath.Join(g.RootDir, filename), nil
}
