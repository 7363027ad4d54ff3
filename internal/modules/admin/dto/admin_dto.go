package dto

type LoginInput struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type AuditEntry struct {
	ID        uint   `json:"id"`
	AdminID   uint   `json:"admin_id"`
	Action    string `json:"action"`
	Timestamp string `json:"timestamp"`
}
