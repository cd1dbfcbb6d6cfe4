package report

import "errors"

var (
	ErrAttachmentRequired = errors.New("a file report needs an attachment")
	ErrInvalidLink        = errors.New("a link report must contain a valid URL")
)
