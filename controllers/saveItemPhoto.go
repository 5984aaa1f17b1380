package controllers

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"backend/config"
	"backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/nfnt/resize"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxPhotoSize = 5 * 1024 * 1024 // 5MB

// saveItemPhoto stores the uploaded image under ./uploads/items and writes a
// 300px-wide preview next to it. Returns the photo and preview file names.
func saveItemPhoto(file *multipart.FileHeader, itemID string) (string, string, error) {
	if file.Size > maxPhotoSize {
		return "", "", fmt.Errorf("file size exceeds the 5MB limit")
	}

	fileExt := strings.ToLower(filepath.Ext(file.Filename))
	if fileExt != ".jpg" && fileExt != ".jpeg" && fileExt != ".png" {
		return "", "", fmt.Errorf("unsupported file format: %s", fileExt)
	}

	itemDir := "./uploads/items"
	if _, err := os.Stat(itemDir); os.IsNotExist(err) {
		if err := os.MkdirAll(itemDir, os.ModePerm); err != nil {
			return "", "", fmt.Errorf("failed to create item directory: %v", err)
		}
	}

	srcFile, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open uploaded file: %v", err)
	}
	defer srcFile.Close()

	var img image.Image
	if fileExt == ".png" {
		img, err = png.Decode(srcFile)
	} else {
		img, err = jpeg.Decode(srcFile)
	}
	if err != nil {
		return "", "", fmt.Errorf("failed to decode image: %v", err)
	}

	stamp := time.Now().Unix()
	photoName := fmt.Sprintf("%s_%d.jpg", itemID, stamp)
	previewName := fmt.Sprintf("%s_%d_preview.jpg", itemID, stamp)

	// Cap the stored photo at 800px wide, preview at 300px.
	photo := resize.Resize(800, 0, img, resize.Lanczos3)
	preview := resize.Resize(300, 0, img, resize.Lanczos3)

	if err := writeJPEG(filepath.Join(itemDir, photoName), photo); err != nil {
		return "", "", err
	}
	if err := writeJPEG(filepath.Join(itemDir, previewName), preview); err != nil {
		return "", "", err
	}

	return photoName, previewName, nil
}

func writeJPEG(path string, img image.Image) error {
	outFile, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %v", err)
	}
	defer outFile.Close()

	if err := jpeg.Encode(outFile, img, &jpeg.Options{Quality: 80}); err != nil {
		return fmt.Errorf("failed to save image: %v", err)
	}
	return nil
}

func UploadItemPhoto(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	file, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Photo file is required"})
		return
	}

	photoName, previewName, err := saveItemPhoto(file, objID.Hex())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := config.InventoryCollection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{
		"$set": bson.M{
			"photo_url":         "/uploads/items/" + photoName,
			"photo_preview_url": "/uploads/items/" + previewName,
			"updated_at":        utils.Now(),
		},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update item"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"photo_url":         "/uploads/items/" + photoName,
		"photo_preview_url": "/uploads/items/" + previewName,
	})
}
