package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

//go:embed templates/*.html
var templateFS embed.FS

const dateLayout = "Jan 2, 2006"

type ProjectStatusRenderer struct {
	tmpl *template.Template
}

func NewProjectStatusRenderer() (*ProjectStatusRenderer, error) {
	t, err := template.ParseFS(templateFS, "templates/project_status.html")
	if err != nil {
		return nil, fmt.Errorf("parse project status template: %w", err)
	}
	return &ProjectStatusRenderer{tmpl: t}, nil
}

func (r *ProjectStatusRenderer) RenderProjectStatus(lead *entity.Lead, updatedBy string) (string, string, error) {
	data := ProjectStatusData{
		Name:               lead.Name,
		Company:            lead.Company,
		Email:              lead.Email,
		Phone:              lead.Phone,
		Address:            lead.Address,
		Value:              FormatUSD(lead.Value),
		RequirementTitle:   lead.ProjectRequirementTitle,
		RequirementDetails: lead.ProjectRequirementDetails,
		CreatedAt:          formatDate(lead.CreatedAt),
		UpdatedAt:          formatDate(lead.UpdatedAt),
		UpdatedBy:          updatedBy,
	}

	var body bytes.Buffer
	if err := r.tmpl.Execute(&body, data); err != nil {
		return "", "", fmt.Errorf("render project status email: %w", err)
	}

	subject := fmt.Sprintf("New Project Status: %s from %s", lead.Name, lead.Company)
	return subject, body.String(), nil
}

// FormatUSD renders 5000 as "$5,000.00".
func FormatUSD(v float64) string {
	if v < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -v)
	}
	return "$" + humanize.FormatFloat("#,###.##", v)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format(dateLayout)
}
