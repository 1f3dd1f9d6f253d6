package scanning

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/gen2brain/heic"
)

// receiptPrompt is the shared instruction used by all vision providers.
const receiptPrompt = `You are reading a bank transfer receipt. Extract the following fields from the image:

1. "sender": the sender's name or masked card number.
2. "receiver": the recipient's name or masked card number.
3. "amount": the transfer amount as a number (e.g. 8700.00).
4. "commission": the transfer fee as a number, 0 if the receipt says no fee.
5. "date": the operation date in YYYY-MM-DD format.
6. "time": the operation time in HH:MM:SS format.
7. "bank": the issuing bank name, if visible.

Return ONLY a valid JSON object with exactly these keys. Use null for any field you cannot read. Do not wrap the JSON in markdown code blocks and do not add any other text.`

// pdfToPNG renders the first page of a PDF to a PNG image. Transfer receipts
// are single-page documents.
func pdfToPNG(pdfData []byte) ([]byte, error) {
	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("rendering PDF page: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// imageToPNG decodes any supported image format and re-encodes it as PNG.
// HEIC photos (the iPhone default) are handled separately because the
// standard image package does not support them.
func imageToPNG(data []byte, mimeType string) ([]byte, error) {
	var img image.Image
	var err error

	if isHEIC(data) || strings.Contains(strings.ToLower(mimeType), "hei") {
		img, err = heic.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding HEIC image: %w", err)
		}
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding image: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// isHEIC detects HEIC/HEIF data by its ftyp box brand.
func isHEIC(data []byte) bool {
	if len(data) < 12 || string(data[4:8]) != "ftyp" {
		return false
	}
	switch string(data[8:12]) {
	case "heic", "heif", "mif1", "msf1":
		return true
	}
	return false
}

// prepareImage normalizes receipt data for a vision provider: PDFs are
// rendered and images are re-encoded so the provider always receives PNG.
func prepareImage(data []byte, contentType string) ([]byte, error) {
	mimeType := strings.ToLower(strings.TrimSpace(contentType))

	switch {
	case mimeType == "application/pdf":
		return pdfToPNG(data)
	case mimeType == "image/png" && !isHEIC(data):
		return data, nil
	default:
		return imageToPNG(data, mimeType)
	}
}
