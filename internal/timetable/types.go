package timetable

type TimeTableRequest struct {
	UserID      uint   `json:"user_id" binding:"required"`
	ClassName   string `json:"class_name" binding:"required,max=255"`
	WeekDay     string `json:"week_day" binding:"required,max=120"`
	DaySlot     *int   `json:"day_slot" binding:"omitempty,min=0"`
	IsMandatory bool   `json:"is_mandatory"`
}

// TimeTableView entry with its slot label
type TimeTableView struct {
	ID           uint   `json:"id"`
	UserID       uint   `json:"user_id"`
	ClassName    string `json:"class_name"`
	WeekDay      string `json:"week_day"`
	DaySlot      *int   `json:"day_slot"`
	DaySlotLabel string `json:"day_slot_label"`
	IsMandatory  bool   `json:"is_mandatory"`
}

// ListQuery optional filter of the list endpoint
type ListQuery struct {
	UserID uint `form:"user_id"`
}
