package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// DriveStore keeps post media in a Google Drive folder. Uploaded files are
// made world-readable so the returned URL can be embedded directly in a
// feed snapshot.
type DriveStore struct {
	srv      *drive.Service
	folderID string
}

// NewDriveStore builds a Drive client from service-account credentials
// JSON. Environments that pass the key through a single variable tend to
// flatten the private key's newlines; they are restored here before the
// JWT config is parsed.
func NewDriveStore(ctx context.Context, credentialsJSON, folderID string) (*DriveStore, error) {
	if credentialsJSON == "" {
		return nil, fmt.Errorf("drive credentials are not set")
	}

	var creds map[string]interface{}
	if err := json.Unmarshal([]byte(credentialsJSON), &creds); err != nil {
		return nil, fmt.Errorf("unable to parse drive credentials: %v", err)
	}
	if key, ok := creds["private_key"].(string); ok {
		creds["private_key"] = strings.ReplaceAll(key, "\\n", "\n")
	}
	rectified, err := json.Marshal(creds)
	if err != nil {
		return nil, fmt.Errorf("unable to rectify drive credentials: %v", err)
	}

	config, err := google.JWTConfigFromJSON(rectified, drive.DriveFileScope)
	if err != nil {
		return nil, fmt.Errorf("unable to build drive config: %v", err)
	}

	srv, err := drive.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve drive client: %v", err)
	}

	log.Println("[Storage] Google Drive client initialized.")
	return &DriveStore{srv: srv, folderID: folderID}, nil
}

// Upload stores the content under the configured folder and opens it to
// anyone with the link. Returns the Drive file id.
func (d *DriveStore) Upload(name string, content io.Reader) (string, error) {
	meta := &drive.File{
		Name:    name,
		Parents: []string{d.folderID},
	}

	file, err := d.srv.Files.Create(meta).Media(content).Do()
	if err != nil {
		return "", fmt.Errorf("could not create file: %v", err)
	}

	_, err = d.srv.Permissions.Create(file.Id, &drive.Permission{
		Role: "reader",
		Type: "anyone",
	}).Do()
	if err != nil {
		return "", fmt.Errorf("could not publish file %s: %v", file.Id, err)
	}

	log.Printf("[Storage] File uploaded. ID: %s", file.Id)
	return file.Id, nil
}

// PublicURL returns the embeddable view URL for an uploaded file.
func (d *DriveStore) PublicURL(fileID string) string {
	return "https://drive.google.com/uc?export=view&id=" + fileID
}

// Download streams the content of a stored file.
func (d *DriveStore) Download(fileID string) (*http.Response, error) {
	return d.srv.Files.Get(fileID).Download()
}

// Delete removes a file by id.
func (d *DriveStore) Delete(fileID string) error {
	if err := d.srv.Files.Delete(fileID).Do(); err != nil {
		log.Printf("[Storage] Failed to delete file %s: %v", fileID, err)
		return err
	}
	log.Printf("[Storage] Deleted file %s.", fileID)
	return nil
}
