package email

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// buildMessage assembles the multipart/mixed payload: a fixed plain-text body
// greeting the employee plus the payslip PDF attached under its own filename.
func buildMessage(from, to, name, period, filename string, pdf []byte) []byte {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	headers := []string{
		fmt.Sprintf("From: %s", from),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: Payslip for %s", period),
		"MIME-Version: 1.0",
		fmt.Sprintf("Content-Type: multipart/mixed; boundary=%q", mw.Boundary()),
		"",
		"",
	}
	out := []byte(strings.Join(headers, "\r\n"))

	body, _ := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=\"UTF-8\""},
	})
	fmt.Fprintf(body,
		"Hi %s,\r\n\r\n"+
			"Please find attached your payslip for %s.\r\n\r\n"+
			"This is a system-generated email. If you have any questions, please contact HR.\r\n\r\n"+
			"Best regards,\r\nHR Department\r\n",
		name, period)

	attachment, _ := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {fmt.Sprintf("application/pdf; name=%q", filename)},
		"Content-Transfer-Encoding": {"base64"},
		"Content-Disposition":       {fmt.Sprintf("attachment; filename=%q", filename)},
	})
	writeBase64(attachment, pdf)

	_ = mw.Close()
	return append(out, buf.Bytes()...)
}

// writeBase64 encodes with the 76-character line wrap SMTP expects.
func writeBase64(w io.Writer, data []byte) {
	encoded := base64.StdEncoding.EncodeToString(data)
	for len(encoded) > 0 {
		n := 76
		if n > len(encoded) {
			n = len(encoded)
		}
		fmt.Fprintf(w, "%s\r\n", encoded[:n])
		encoded = encoded[n:]
	}
}
