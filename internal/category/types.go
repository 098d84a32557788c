package category

type CategoryRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	IsMandatory bool   `json:"is_mandatory"`
}
