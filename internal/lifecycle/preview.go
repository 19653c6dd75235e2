package lifecycle

import "sync/atomic"

// PreviewImage is a copy of the previewed image handed to presentation.
type PreviewImage struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Preview holds the selected image bytes until the controller moves away
// from previewing it.
type Preview struct {
	filename    string
	contentType string
	data        []byte
}

// livePreviews counts previews that have not been released.
var livePreviews atomic.Int64

func newPreview(filename, contentType string, data []byte) *Preview {
	livePreviews.Add(1)
	return &Preview{
		filename:    filename,
		contentType: contentType,
		data:        append([]byte(nil), data...),
	}
}

func (p *Preview) image() PreviewImage {
	return PreviewImage{
		Filename:    p.filename,
		ContentType: p.contentType,
		Data:        append([]byte(nil), p.data...),
	}
}

func (p *Preview) release() {
	if p.data == nil {
		return
	}
	p.data = nil
	livePreviews.Add(-1)
}
