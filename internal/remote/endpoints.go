package remote

import (
	"net/url"
	"strings"
)

const (
	listingPath        = "/files.json.php"
	staticListingPath  = "/files.json"
	deletePath         = "/delete_customer_files_by_pattern.php"
	archiveDownloadURL = "/download_customer_zip.php"
	uploadsSuffix      = "/uploads"
)

// Endpoints are the URLs of one remote file server. The configured base
// may point either at the server root or at its uploads directory.
type Endpoints struct {
	Root    string
	Uploads string
}

func NewEndpoints(base string) Endpoints {
	root := strings.TrimRight(strings.TrimSpace(base), "/")
	root = strings.TrimSuffix(root, uploadsSuffix)
	return Endpoints{Root: root, Uploads: root + uploadsSuffix}
}

// Listings returns the listing URLs in the order they are tried.
func (e Endpoints) Listings() []string {
	return []string{e.Root + listingPath, e.Root + staticListingPath}
}

func (e Endpoints) File(name string) string {
	return e.Uploads + "/" + url.PathEscape(name)
}

// Archive is the main archive of a customer, <uploads>/<id>_.zip.
func (e Endpoints) Archive(id string) string {
	return e.File(id + "_.zip")
}

func (e Endpoints) ArchiveDownload(id string) string {
	q := url.Values{}
	q.Set("customerId", id)
	return e.Root + archiveDownloadURL + "?" + q.Encode()
}

func (e Endpoints) Delete() string {
	return e.Root + deletePath
}

// FileURL is where a browser downloads one listed file.
func FileURL(base, name string) string {
	return NewEndpoints(base).File(name)
}

// ArchiveDownloadURL is the bulk download of every file of a customer.
func ArchiveDownloadURL(base, id string) string {
	return NewEndpoints(base).ArchiveDownload(id)
}
