package venues

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"cancha/db"
	"cancha/utils"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

const photoDir = "static/venuepic"

// UploadVenuePhoto accepts a multipart "photo" file, stores the original and
// a 300px-wide thumbnail, and records both URLs on the venue.
func UploadVenuePhoto(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	venueID := ps.ByName("id")

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "missing photo")
		return
	}
	defer file.Close()

	switch header.Header.Get("Content-Type") {
	case "image/jpeg", "image/png", "image/webp":
	default:
		utils.RespondWithError(w, http.StatusBadRequest, "unsupported image type")
		return
	}

	img, err := imaging.Decode(file)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "unreadable image")
		return
	}

	if err := os.MkdirAll(photoDir, 0755); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "storage error")
		return
	}

	base := venueID + ".jpg"
	thumb := venueID + "_thumb.jpg"
	if err := imaging.Save(img, filepath.Join(photoDir, base)); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "storage error")
		return
	}
	thumbImg := imaging.Resize(img, 300, 0, imaging.Lanczos)
	if err := imaging.Save(thumbImg, filepath.Join(photoDir, thumb)); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "storage error")
		return
	}

	photoURL := "/" + photoDir + "/" + base
	thumbURL := "/" + photoDir + "/" + thumb

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.VenuesCollection.UpdateOne(ctx,
		bson.M{"id": venueID},
		bson.M{"$set": bson.M{"photoUrl": photoURL, "thumbUrl": thumbURL}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusServiceUnavailable, "db error")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "venue not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"photoUrl": photoURL, "thumbUrl": thumbURL})
}
