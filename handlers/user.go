package handlers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"stocksnap/middleware"
	"stocksnap/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var allowedImageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

type UserHandler struct {
	DB        *gorm.DB
	UploadDir string
}

func (h *UserHandler) currentUser(c *gin.Context) (*models.User, error) {
	email := c.MustGet(middleware.ContextEmailKey).(string)

	var user models.User
	if err := h.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (h *UserHandler) Profile(c *gin.Context) {
	user, err := h.currentUser(c)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user information."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":        user.ID,
		"username":  user.Username,
		"email":     user.Email,
		"image_url": user.ImageURL,
	})
}

// UploadImage stores the multipart "image" file under a generated name and
// records it on the user. A previous image is replaced.
func (h *UserHandler) UploadImage(c *gin.Context) {
	user, err := h.currentUser(c)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image."})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided."})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image file."})
		return
	}

	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image."})
		return
	}

	filename := uuid.NewString() + ext
	if err := c.SaveUploadedFile(file, filepath.Join(h.UploadDir, filename)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image."})
		return
	}

	if user.ImageURL != "" {
		os.Remove(filepath.Join(h.UploadDir, user.ImageURL))
	}

	user.ImageURL = filename
	if err := h.DB.Save(user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Image uploaded successfully."})
}

func (h *UserHandler) DeleteImage(c *gin.Context) {
	user, err := h.currentUser(c)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete image."})
		return
	}

	if user.ImageURL == "" {
		c.JSON(http.StatusNotFound, gin.H{"message": "No image to delete."})
		return
	}

	if err := os.Remove(filepath.Join(h.UploadDir, user.ImageURL)); err != nil && !os.IsNotExist(err) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete image."})
		return
	}

	user.ImageURL = ""
	if err := h.DB.Save(user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete image."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Image deleted successfully."})
}

// ServeImage returns stored image bytes. Only bare filenames are accepted so
// the uploads directory cannot be escaped.
func (h *UserHandler) ServeImage(c *gin.Context) {
	filename := c.Param("filename")
	if filename == "" || filename != filepath.Base(filename) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Image not found."})
		return
	}

	path := filepath.Join(h.UploadDir, filename)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Image not found."})
		return
	}

	c.File(path)
}
