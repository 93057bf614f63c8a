package version

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const releasesURL = "https://api.github.com/repos/litescript/ls-sextant/releases/latest"

// UpdateInfo describes the result of an update check.
type UpdateInfo struct {
	CurrentVersion  string
	LatestVersion   string
	UpdateAvailable bool
	Error           error
}

// CheckForUpdate queries the latest release tag. Network failures are
// reported in the Error field rather than returned, so callers can show
// the result uniformly.
func CheckForUpdate() UpdateInfo {
	info := UpdateInfo{CurrentVersion: Version}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(releasesURL)
	if err != nil {
		info.Error = err
		return info
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		info.Error = fmt.Errorf("release query returned %s", resp.Status)
		return info
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		info.Error = err
		return info
	}

	info.LatestVersion = strings.TrimPrefix(release.TagName, "v")
	info.UpdateAvailable = info.LatestVersion != "" && info.LatestVersion != Version
	return info
}
