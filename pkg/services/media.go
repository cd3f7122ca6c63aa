package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"blog-cms/pkg/config"
)

// MediaFile is an asset referenced from post bodies.
type MediaFile struct {
	Name string `json:"name"`
	Path string `json:"path"` // path for usage in markdown
	Size int64  `json:"size"`
	URL  string `json:"url"`
}

// mediaFolders resolves the media and public folders for a collection,
// falling back to the site-wide defaults.
func mediaFolders(collectionName string) (string, string, error) {
	cfg, err := GetSiteConfig()
	if err != nil {
		return "", "", err
	}

	if collectionName != "" {
		for _, col := range cfg.Collections {
			if col.Name == collectionName {
				if col.MediaFolder != "" {
					return col.MediaFolder, col.PublicFolder, nil
				}
				break
			}
		}
	}

	if cfg.MediaFolder == "" {
		return "", "", fmt.Errorf("media_folder not configured")
	}
	return cfg.MediaFolder, cfg.PublicFolder, nil
}

// usagePath maps a stored media file to the path post bodies should
// reference it by.
func usagePath(mediaFolder, publicFolder, filename string) string {
	if publicFolder != "" {
		p := filepath.ToSlash(filepath.Join(publicFolder, filename))
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
		return p
	}

	cleaned := filepath.ToSlash(mediaFolder)
	if rest, ok := strings.CutPrefix(cleaned, "static/"); ok {
		return "/" + rest + "/" + filename
	}
	return "/" + cleaned + "/" + filename
}

func ListMediaFiles(collectionName string) ([]MediaFile, error) {
	mediaFolder, publicFolder, err := mediaFolders(collectionName)
	if err != nil {
		return nil, err
	}

	fullMediaPath := filepath.Join(config.RepoPath, mediaFolder)
	if _, err := os.Stat(fullMediaPath); os.IsNotExist(err) {
		if err := os.MkdirAll(fullMediaPath, 0755); err != nil {
			return nil, err
		}
	}

	entries, err := os.ReadDir(fullMediaPath)
	if err != nil {
		return nil, err
	}

	var files []MediaFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}

		usage := usagePath(mediaFolder, publicFolder, entry.Name())
		files = append(files, MediaFile{
			Name: entry.Name(),
			Path: usage,
			Size: info.Size(),
			URL:  usage,
		})
	}
	return files, nil
}

// SaveMediaFile stores an upload under the collection's media folder with a
// timestamped, space-free name.
func SaveMediaFile(header *multipart.FileHeader, collectionName string) (*MediaFile, error) {
	mediaFolder, publicFolder, err := mediaFolders(collectionName)
	if err != nil {
		return nil, err
	}

	src, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	filename := strings.ReplaceAll(filepath.Base(header.Filename), " ", "_")
	ext := filepath.Ext(filename)
	name := strings.TrimSuffix(filename, ext)
	filename = fmt.Sprintf("%s_%d%s", name, time.Now().Unix(), ext)

	fullMediaPath := SafeJoin(config.RepoPath, mediaFolder, filename)
	if fullMediaPath == "" {
		return nil, fmt.Errorf("invalid media path")
	}
	if err := os.MkdirAll(filepath.Dir(fullMediaPath), 0755); err != nil {
		return nil, err
	}

	dst, err := os.Create(fullMediaPath)
	if err != nil {
		return nil, err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return nil, err
	}

	usage := usagePath(mediaFolder, publicFolder, filename)
	return &MediaFile{
		Name: filename,
		Path: usage,
		Size: header.Size,
		URL:  usage,
	}, nil
}

func DeleteMediaFile(filename, collectionName string) error {
	mediaFolder, _, err := mediaFolders(collectionName)
	if err != nil {
		return err
	}

	fullMediaPath := SafeJoin(config.RepoPath, mediaFolder, filename)
	if fullMediaPath == "" {
		return fmt.Errorf("invalid media path")
	}
	return os.Remove(fullMediaPath)
}
