package classify

import (
	"os"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/sys/unix"
)

// captureTimestamp derives the capture time of a still file. EXIF
// DateTimeOriginal wins when the file carries one; otherwise the maximum of
// the filesystem creation and modification times is used.
func captureTimestamp(path string, info os.FileInfo) time.Time {
	if ts, ok := exifTimestamp(path); ok {
		return ts
	}
	ts := info.ModTime()
	if ctime, ok := changeTime(path); ok && ctime.After(ts) {
		ts = ctime
	}
	return ts
}

func exifTimestamp(path string) (time.Time, bool) {
	file, err := os.Open(path)
	if err != nil {
		return time.Time{}, false
	}
	defer file.Close()

	meta, err := exif.Decode(file)
	if err != nil {
		return time.Time{}, false
	}
	ts, err := meta.DateTime()
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

func changeTime(path string) (time.Time, bool) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return time.Time{}, false
	}
	return time.Unix(st.Ctim.Sec, st.Ctim.Nsec), true
}
