package dto

type DocumentOutput struct {
	Name  string
	Pages int
	Size  int64
	Title string
}

type IngestInput struct {
	PDFPath string
	Text    string
}

type AckOutput struct {
	Kind    string
	Message string
}
