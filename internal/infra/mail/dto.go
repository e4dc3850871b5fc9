package mail

// ProjectStatusData is the view model of the project status email. Every
// field is preformatted.
type ProjectStatusData struct {
	Name               string
	Company            string
	Email              string
	Phone              string
	Address            string
	Value              string
	RequirementTitle   string
	RequirementDetails string
	CreatedAt          string
	UpdatedAt          string
	UpdatedBy          string
}
