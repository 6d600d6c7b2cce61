package exif

import (
	"context"
	"errors"
	"os"
	"time"

	goexif "github.com/rwcarlsen/goexif/exif"
)

const exifTimeLayout = "2006:01:02 15:04:05"

var errNoCaptureTime = errors.New("exif datetime not found")

type Reader struct{}

// CaptureTime returns when the photo at path was taken. The EXIF
// DateTimeOriginal tag is preferred, then the EXIF DateTime tag, then the file
// modification time; fromExif tells the caller which one was used.
func (Reader) CaptureTime(ctx context.Context, path string) (taken time.Time, fromExif bool, err error) {
	select {
	case <-ctx.Done():
		return time.Time{}, false, ctx.Err()
	default:
	}

	file, err := os.Open(path)
	if err != nil {
		return time.Time{}, false, err
	}
	defer file.Close()

	if ts, err := decodeCaptureTime(file); err == nil {
		return ts, true, nil
	}

	info, err := file.Stat()
	if err != nil {
		return time.Time{}, false, err
	}
	return info.ModTime(), false, nil
}

func decodeCaptureTime(file *os.File) (time.Time, error) {
	x, err := goexif.Decode(file)
	if err != nil {
		return time.Time{}, err
	}
	if tag, err := x.Get(goexif.DateTimeOriginal); err == nil {
		if str, err := tag.StringVal(); err == nil {
			if parsed, err := time.ParseInLocation(exifTimeLayout, str, time.Local); err == nil {
				return parsed, nil
			}
		}
	}
	if parsed, err := x.DateTime(); err == nil {
		return parsed, nil
	}
	return time.Time{}, errNoCaptureTime
}
