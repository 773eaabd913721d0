package models

import "time"

// ValPdfAttachment is a stored PDF merged after the generated document.
// PDFContents is base64 encoded in JSON.
type ValPdfAttachment struct {
	PDFID        int     `json:"pdfId"`
	ValID        *int    `json:"valId,omitempty"`
	PDFName      *string `json:"pdfName,omitempty" validate:"omitempty,max=100"`
	DisplayOrder *int    `json:"displayOrder,omitempty"`
	PDFContents  []byte  `json:"pdfContents,omitempty"`
}

type ValAnnotation struct {
	AnnotationID      int        `json:"annotationId"`
	Author            *string    `json:"author,omitempty" validate:"omitempty,max=50"`
	AuthorID          *string    `json:"authorId,omitempty" validate:"omitempty,max=50"`
	AnnotationContent *string    `json:"annotationContent,omitempty"`
	AnnotationGroupID *string    `json:"annotationGroupId,omitempty" validate:"omitempty,uuid"`
	DateModified      *time.Time `json:"dateModified,omitempty"`
	ValID             *int       `json:"valId,omitempty"`
	GroupID           *int       `json:"groupId,omitempty"`
}

type BracketMapping struct {
	ID          int     `json:"id" yaml:"-"`
	TagName     string  `json:"tagName" yaml:"tagName" validate:"required,max=100"`
	ObjectPath  *string `json:"objectPath,omitempty" yaml:"objectPath"`
	Description *string `json:"description,omitempty" yaml:"description"`
	SystemTag   bool    `json:"systemTag" yaml:"systemTag"`
}
