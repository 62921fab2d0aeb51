// Package receipts renders a printable PDF for a confirmed match with a
// signed QR payload the venue can scan at the gate.
package receipts

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"time"

	"cancha/faults"
	"cancha/matches"
	"cancha/models"
	"cancha/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

func hmacSecret() []byte {
	if s := os.Getenv("RECEIPT_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("change_me_in_production")
}

var store matches.Store = matches.MongoStore{}

// QRPayload signs matchId|bookingId|code so a scanned receipt can be
// verified offline.
func QRPayload(matchID, bookingID, code string) string {
	data := fmt.Sprintf("%s|%s|%s|%d", matchID, bookingID, code, time.Now().Unix())
	h := hmac.New(sha256.New, hmacSecret())
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("%s|%s", data, sig)
}

// PrintReceipt serves GET /api/matches/:id/receipt as a PDF download.
func PrintReceipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	matchID := ps.ByName("id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	m, err := store.Match(ctx, matchID)
	if err != nil {
		utils.RespondWithError(w, faults.HTTPStatus(err), err.Error())
		return
	}
	if m.State != models.MatchConfirmed && m.State != models.MatchCompleted {
		utils.RespondWithError(w, http.StatusBadRequest, "match is not confirmed")
		return
	}

	code := utils.GenerateRandomDigitString(8)
	qrPNG, err := qrcode.Encode(QRPayload(m.ID, m.BookingID, code), qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to generate QR code")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Booking Receipt")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Match: %s", m.ID))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Date: %s  %s-%s", m.Date, m.StartTime, m.EndTime))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Format: %d-a-side", m.MatchType))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Total: %.2f (%.2f per player)", m.TotalPrice, m.PricePerPlayer))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Reference: %s", code))
	pdf.Ln(12)

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 40, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=receipt-"+m.ID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
