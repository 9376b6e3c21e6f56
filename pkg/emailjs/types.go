package emailjs

// SendRequest is the EmailJS send payload. TemplateParams are
// interpolated into the configured template server-side.
type SendRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
}

// CommentNotification carries what the artist sees in the new-comment
// email.
type CommentNotification struct {
	AuthorName string
	Content    string
	PostedAt   string
	IsReply    bool
	ToEmail    string
}
