// Package mirrors refreshes the pacman mirrorlist from the Arch mirror
// status service.
package mirrors

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"archup/internal/util"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

const (
	mirrorlistURL = "https://archlinux.org/mirrorlist/?country=%s&protocol=https&use_mirror_status=on"
	// Mirrorlist is the live environment's pacman mirrorlist, which
	// pacstrap copies into the target.
	Mirrorlist = "/etc/pacman.d/mirrorlist"
)

// httpGet is a variable to allow mocking in tests
var httpGet = http.Get

// Fetch downloads a mirrorlist for a country code ("all" for every
// region) into a temporary file, with the Server lines uncommented.
// The caller owns the returned path.
var Fetch = func(country string) (string, error) {
	resp, err := httpGet(fmt.Sprintf(mirrorlistURL, country))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download mirrorlist: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	list := strings.ReplaceAll(string(body), "#Server", "Server")
	if !strings.Contains(list, "Server") {
		return "", fmt.Errorf("mirrorlist for country %q contains no servers", country)
	}

	tmp, err := os.CreateTemp("", "archup-mirrorlist-*")
	if err != nil {
		return "", err
	}
	defer tmp.Close()
	if _, err := tmp.WriteString(list); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

// Refresh replaces the live mirrorlist with a freshly fetched one and
// returns the temporary file it was staged through, so the run can
// record it for cleanup.
var Refresh = func(country string) (string, error) {
	s := spinner.New(spinner.CharSets[9], 100*time.Millisecond)
	s.Suffix = fmt.Sprintf(" Refreshing mirrorlist (country: %s)...", country)
	s.Start()
	defer s.Stop()

	tmp, err := Fetch(country)
	if err != nil {
		s.FinalMSG = color.RedString("✖ Mirrorlist refresh failed.\n")
		return "", err
	}

	if err := installMirrorlist(tmp, Mirrorlist); err != nil {
		s.FinalMSG = color.RedString("✖ Mirrorlist refresh failed.\n")
		return tmp, err
	}
	s.FinalMSG = color.GreenString("✔ Mirrorlist refreshed.\n")
	return tmp, nil
}

// installMirrorlist is a variable to allow mocking in tests
var installMirrorlist = func(src, dst string) error {
	return util.CopyFile(src, dst, 0644)
}
