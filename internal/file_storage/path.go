package filestorage

import "fmt"

// Example output: "ce-certificates/<university id>", objects are named <certificate number>.pdf
func GetCeCertificateDirectoryPath(universityId string) string {
	return fmt.Sprintf("ce-certificates/%s", universityId)
}
