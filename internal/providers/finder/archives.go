package finder

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/420btc/mymac/internal/shared/types"
	"github.com/charlievieth/fastwalk"
	"github.com/klauspost/compress/gzip"
)

// archiveOps covers zip and gzip archive handling.
type archiveOps struct {
	*finderOps
}

func (a *archiveOps) getTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "finder.zip.create",
			Name:        "Create ZIP",
			Description: "Compress a directory into a ZIP archive",
			Parameters: []types.Parameter{
				{Name: "source", Type: "string", Description: "Source directory", Required: true},
				{Name: "output", Type: "string", Description: "Output ZIP path", Required: true},
			},
			Returns: "object",
		},
		{
			ID:          "finder.zip.extract",
			Name:        "Extract ZIP",
			Description: "Extract a ZIP archive",
			Parameters: []types.Parameter{
				{Name: "archive", Type: "string", Description: "ZIP file path", Required: true},
				{Name: "destination", Type: "string", Description: "Destination directory", Required: true},
			},
			Returns: "object",
		},
		{
			ID:          "finder.zip.list",
			Name:        "List ZIP",
			Description: "List ZIP archive contents",
			Parameters: []types.Parameter{
				{Name: "archive", Type: "string", Description: "ZIP file path", Required: true},
			},
			Returns: "array",
		},
		{
			ID:          "finder.gzip.compress",
			Name:        "Gzip File",
			Description: "Compress a single file with gzip",
			Parameters: []types.Parameter{
				{Name: "source", Type: "string", Description: "Source file", Required: true},
				{Name: "output", Type: "string", Description: "Output .gz path", Required: true},
			},
			Returns: "object",
		},
		{
			ID:          "finder.gzip.decompress",
			Name:        "Gunzip File",
			Description: "Decompress a gzip file",
			Parameters: []types.Parameter{
				{Name: "source", Type: "string", Description: "Source .gz file", Required: true},
				{Name: "output", Type: "string", Description: "Output path", Required: true},
			},
			Returns: "object",
		},
	}
}

func (a *archiveOps) zipCreate(params map[string]interface{}) (*types.Result, error) {
	source, ok := getString(params, "source")
	if !ok {
		return failure("source parameter required")
	}
	output, ok := getString(params, "output")
	if !ok {
		return failure("output parameter required")
	}

	srcAbs, err := a.ws.Resolve(source)
	if err != nil {
		return failure(err.Error())
	}
	outAbs, err := a.ws.Resolve(output)
	if err != nil {
		return failure(err.Error())
	}

	zipFile, err := os.Create(outAbs)
	if err != nil {
		return failure(fmt.Sprintf("create failed: %v", err))
	}
	defer zipFile.Close()

	zw := zip.NewWriter(zipFile)
	defer zw.Close()

	count := 0
	conf := fastwalk.Config{Follow: false}
	err = fastwalk.Walk(&conf, srcAbs, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		relName, relErr := filepath.Rel(srcAbs, path)
		if relErr != nil {
			return nil
		}

		entry, createErr := zw.Create(filepath.ToSlash(relName))
		if createErr != nil {
			return createErr
		}
		file, openErr := os.Open(path)
		if openErr != nil {
			return openErr
		}
		defer file.Close()
		if _, copyErr := io.Copy(entry, file); copyErr != nil {
			return copyErr
		}
		count++
		return nil
	})
	if err != nil {
		return failure(fmt.Sprintf("zip failed: %v", err))
	}

	return success(map[string]interface{}{
		"archive": output,
		"files":   count,
	})
}

func (a *archiveOps) zipExtract(params map[string]interface{}) (*types.Result, error) {
	archive, ok := getString(params, "archive")
	if !ok {
		return failure("archive parameter required")
	}
	destination, ok := getString(params, "destination")
	if !ok {
		return failure("destination parameter required")
	}

	arcAbs, err := a.ws.Resolve(archive)
	if err != nil {
		return failure(err.Error())
	}
	dstAbs, err := a.ws.Resolve(destination)
	if err != nil {
		return failure(err.Error())
	}

	reader, err := zip.OpenReader(arcAbs)
	if err != nil {
		return failure(fmt.Sprintf("open failed: %v", err))
	}
	defer reader.Close()

	count := 0
	for _, file := range reader.File {
		// Entry names come from the archive; re-sandbox each one.
		target := filepath.Join(dstAbs, filepath.Clean("/"+file.Name))
		if !strings.HasPrefix(target, dstAbs+string(filepath.Separator)) && target != dstAbs {
			continue
		}

		if file.FileInfo().IsDir() {
			os.MkdirAll(target, 0o755)
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return failure(fmt.Sprintf("mkdir failed: %v", err))
		}

		src, err := file.Open()
		if err != nil {
			return failure(fmt.Sprintf("open entry failed: %v", err))
		}
		dst, err := os.Create(target)
		if err != nil {
			src.Close()
			return failure(fmt.Sprintf("create failed: %v", err))
		}
		_, copyErr := io.Copy(dst, io.LimitReader(src, MaxFileSize))
		src.Close()
		dst.Close()
		if copyErr != nil {
			return failure(fmt.Sprintf("extract failed: %v", copyErr))
		}
		count++
	}

	return success(map[string]interface{}{
		"destination": destination,
		"files":       count,
	})
}

func (a *archiveOps) zipList(params map[string]interface{}) (*types.Result, error) {
	archive, ok := getString(params, "archive")
	if !ok {
		return failure("archive parameter required")
	}

	arcAbs, err := a.ws.Resolve(archive)
	if err != nil {
		return failure(err.Error())
	}

	reader, err := zip.OpenReader(arcAbs)
	if err != nil {
		return failure(fmt.Sprintf("open failed: %v", err))
	}
	defer reader.Close()

	entries := []map[string]interface{}{}
	for _, file := range reader.File {
		entries = append(entries, map[string]interface{}{
			"name":            file.Name,
			"size":            file.UncompressedSize64,
			"compressed_size": file.CompressedSize64,
			"is_dir":          file.FileInfo().IsDir(),
			"modified":        file.Modified,
		})
	}

	return success(map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	})
}

func (a *archiveOps) gzipCompress(params map[string]interface{}) (*types.Result, error) {
	srcAbs, outAbs, res := a.resolveSourceOutput(params)
	if res != nil {
		return res, nil
	}

	src, err := os.Open(srcAbs)
	if err != nil {
		return failure(fmt.Sprintf("open failed: %v", err))
	}
	defer src.Close()

	out, err := os.Create(outAbs)
	if err != nil {
		return failure(fmt.Sprintf("create failed: %v", err))
	}
	defer out.Close()

	gw := gzip.NewWriter(out)
	written, err := io.Copy(gw, src)
	if err != nil {
		return failure(fmt.Sprintf("compress failed: %v", err))
	}
	if err := gw.Close(); err != nil {
		return failure(fmt.Sprintf("compress failed: %v", err))
	}

	return success(map[string]interface{}{"bytes_in": written})
}

func (a *archiveOps) gzipDecompress(params map[string]interface{}) (*types.Result, error) {
	srcAbs, outAbs, res := a.resolveSourceOutput(params)
	if res != nil {
		return res, nil
	}

	src, err := os.Open(srcAbs)
	if err != nil {
		return failure(fmt.Sprintf("open failed: %v", err))
	}
	defer src.Close()

	gr, err := gzip.NewReader(src)
	if err != nil {
		return failure(fmt.Sprintf("not a gzip file: %v", err))
	}
	defer gr.Close()

	out, err := os.Create(outAbs)
	if err != nil {
		return failure(fmt.Sprintf("create failed: %v", err))
	}
	defer out.Close()

	written, err := io.Copy(out, io.LimitReader(gr, MaxFileSize))
	if err != nil {
		return failure(fmt.Sprintf("decompress failed: %v", err))
	}

	return success(map[string]interface{}{"bytes_out": written})
}

func (a *archiveOps) resolveSourceOutput(params map[string]interface{}) (string, string, *types.Result) {
	source, ok := getString(params, "source")
	if !ok {
		res, _ := failure("source parameter required")
		return "", "", res
	}
	output, ok := getString(params, "output")
	if !ok {
		res, _ := failure("output parameter required")
		return "", "", res
	}

	srcAbs, err := a.ws.Resolve(source)
	if err != nil {
		res, _ := failure(err.Error())
		return "", "", res
	}
	outAbs, err := a.ws.Resolve(output)
	if err != nil {
		res, _ := failure(err.Error())
		return "", "", res
	}
	return srcAbs, outAbs, nil
}
