package events

import (
	"bytes"
	"fmt"
	"net/http"

	"bend/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

// GET /api/events/:eventid/qr
func (h *Handler) ShareQR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	eventID := ps.ByName("eventid")

	ev, err := h.events.ByID(r.Context(), eventID)
	if err != nil || ev == nil {
		utils.RespondWithError(w, http.StatusNotFound, "Event not found")
		return
	}

	shareURL := fmt.Sprintf("%s/events/%s", h.shareBase, ev.EventID)
	png, err := qrcode.Encode(shareURL, qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// GET /api/events/:eventid/sheet
func (h *Handler) EventSheet(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	eventID := ps.ByName("eventid")

	ev, err := h.events.ByID(r.Context(), eventID)
	if err != nil || ev == nil {
		utils.RespondWithError(w, http.StatusNotFound, "Event not found")
		return
	}

	links, err := h.artistEvents.ByEventID(r.Context(), ev.EventID)
	if err != nil {
		links = nil
	}
	artistIDs := make([]string, 0, len(links))
	for _, link := range links {
		artistIDs = append(artistIDs, link.ArtistID)
	}
	artists, err := h.accounts.ArtistsByIDs(r.Context(), artistIDs)
	if err != nil {
		artists = nil
	}

	shareURL := fmt.Sprintf("%s/events/%s", h.shareBase, ev.EventID)
	qrPNG, err := qrcode.Encode(shareURL, qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Event Sheet")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Location: %s", ev.Location))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Date: %s - %s", ev.StartDate, ev.EndDate))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Time: %s - %s", ev.StartTime, ev.EndTime))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Entrance Fee: %.2f", ev.EntranceFee))
	pdf.Ln(12)

	if len(artists) > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 10, "Lineup")
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 12)
		for _, a := range artists {
			pdf.Cell(0, 8, a.Name)
			pdf.Ln(6)
		}
		pdf.Ln(6)
	}

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 40, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=event-"+ev.EventID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
