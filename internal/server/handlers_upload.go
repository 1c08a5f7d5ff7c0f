package server

import (
	"crypto/rand"
	"encoding/hex"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"retroforum/internal/database"

	"github.com/labstack/echo/v4"
)

const maxUploadSize = 8 * 1024 * 1024

// uploadToken names stored files. Uploads never reuse the client's filename;
// 12 random bytes keeps collisions out of a single flat directory.
func uploadToken() (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (s *Server) HandlerUpload(c echo.Context) error {
	resp := make(map[string]any)

	file, err := c.FormFile("file")
	if err != nil {
		return jsonError(c, database.ErrValidation, "A file is required.")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".png" && ext != ".txt" {
		return jsonError(c, database.ErrValidation, "Only .png and .txt files are allowed.")
	}

	if file.Size > maxUploadSize {
		return jsonError(c, database.ErrValidation, "File size exceeds 8MB limit.")
	}

	src, err := file.Open()
	if err != nil {
		log.Println(err)
		resp["message"] = "Failed to open file."
		return c.JSON(http.StatusInternalServerError, resp)
	}
	defer src.Close()

	token, err := uploadToken()
	if err != nil {
		log.Println(err)
		resp["message"] = "Failed to store file."
		return c.JSON(http.StatusInternalServerError, resp)
	}
	name := token + ext

	dst, err := os.Create(filepath.Join(s.uploadDir, name))
	if err != nil {
		log.Println(err)
		resp["message"] = "Failed to store file."
		return c.JSON(http.StatusInternalServerError, resp)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		log.Println(err)
		resp["message"] = "Failed to store file."
		return c.JSON(http.StatusInternalServerError, resp)
	}

	resp["url"] = "/uploads/" + name
	return c.JSON(http.StatusOK, resp)
}
