package attendanceapi

type User struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	TokenCode string `json:"tokenCode"`
}

type NewUser struct {
	Name      string `json:"name" validate:"required"`
	TokenCode string `json:"tokenCode" validate:"required"`
}

type addUserResponse struct {
	User *User `json:"user"`
}

type MarkRequest struct {
	TokenCode string `json:"tokenCode" validate:"required"`
}

type MarkResponse struct {
	Message string `json:"message"`
}

type HistoryEntry struct {
	Date   string `json:"date"`
	Status string `json:"status"`
}
