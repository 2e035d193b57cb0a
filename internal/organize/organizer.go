package organize

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/bft-labs/autoorganize/internal/domain"
	"github.com/bft-labs/autoorganize/pkg/log"
)

const bytesPerMB = 1024 * 1024

// Scan walks the watch locations and records a New result for every
// eligible media file that has no result yet. It is the body of the
// scheduled scan task.
func (s *Service) Scan(ctx context.Context) error {
	if s.repo == nil {
		s.logger.Debug("scan skipped: no repository")
		return nil
	}
	if s.fs == nil {
		return errors.New("scan requires a filesystem")
	}

	opts := s.options()
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = domain.DefaultExtensions
	}
	minSize := int64(opts.MinFileSizeMB) * bytesPerMB

	found := 0
	for _, loc := range opts.WatchLocations {
		if err := ctx.Err(); err != nil {
			return err
		}
		if ok, _ := afero.DirExists(s.fs, loc); !ok {
			s.logger.Warn("watch location does not exist", log.String("path", loc))
			continue
		}

		err := afero.Walk(s.fs, loc, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				s.logger.Warn("failed to read path during scan", log.String("path", path), log.Err(err))
				return nil
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if info.IsDir() || !hasExtension(path, exts) || info.Size() < minSize {
				return nil
			}

			added, err := s.recordNew(ctx, path, info.Size())
			if err != nil {
				return err
			}
			if added {
				found++
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("scan of %s failed: %w", loc, err)
		}
	}

	s.logger.Info("scan complete",
		log.Int("locations", len(opts.WatchLocations)),
		log.Int("new_files", found),
	)
	return nil
}

func (s *Service) recordNew(ctx context.Context, path string, size int64) (bool, error) {
	_, err := s.repo.FindByOriginalPath(ctx, path)
	if err == nil {
		return false, nil
	}
	if !isNotFound(err) {
		return false, fmt.Errorf("failed to look up %s: %w", path, err)
	}

	res := domain.FileOrganizationResult{
		ID:               uuid.NewString(),
		OriginalPath:     path,
		OriginalFileName: filepath.Base(path),
		Date:             s.now(),
		Status:           domain.StatusNew,
		Type:             domain.OrganizerUnknown,
		FileSize:         size,
		ExtractedName:    extractName(path),
	}
	if err := s.repo.SaveResult(ctx, res); err != nil {
		return false, fmt.Errorf("failed to record %s: %w", path, err)
	}
	s.logger.Debug("new file found", log.String("path", path), log.String("id", res.ID))
	return true, nil
}

// PerformOrganization moves the source file of result id to targetPath,
// indexes it in the library and queues a metadata refresh. The result is
// updated to Success, SkippedExisting or Failure.
func (s *Service) PerformOrganization(ctx context.Context, id, targetPath string) (domain.FileOrganizationResult, error) {
	if s.repo == nil {
		return domain.FileOrganizationResult{}, domain.ErrRepositoryUnavailable
	}
	if s.fs == nil {
		return domain.FileOrganizationResult{}, errors.New("organization requires a filesystem")
	}

	res, err := s.repo.GetResult(ctx, id)
	if err != nil {
		return res, err
	}
	if targetPath == "" {
		return res, errors.New("target path is required")
	}

	opts := s.options()
	target := filepath.Clean(targetPath)
	res.TargetPath = target
	res.Date = s.now()

	if exists, _ := afero.Exists(s.fs, target); exists && !opts.OverwriteExisting {
		res.Status = domain.StatusSkippedExisting
		res.StatusMessage = "target file already exists"
		res.DuplicatePaths = []string{target}
		return res, s.repo.SaveResult(ctx, res)
	}

	if err := s.move(res.OriginalPath, target, opts.CopyOriginalFile); err != nil {
		res.Status = domain.StatusFailure
		res.StatusMessage = err.Error()
		if saveErr := s.repo.SaveResult(ctx, res); saveErr != nil {
			s.logger.Error("failed to save failed result", log.String("id", id), log.Err(saveErr))
		}
		return res, fmt.Errorf("failed to organize %s: %w", res.OriginalPath, err)
	}

	if !opts.CopyOriginalFile && opts.DeleteEmptyFolders {
		s.removeEmptyFolder(filepath.Dir(res.OriginalPath), opts.WatchLocations)
	}

	res.Status = domain.StatusSuccess
	res.StatusMessage = ""
	res.DuplicatePaths = nil
	if err := s.repo.SaveResult(ctx, res); err != nil {
		return res, fmt.Errorf("failed to save result: %w", err)
	}

	s.refreshLibrary(ctx, target)

	s.logger.Info("file organized",
		log.String("id", id),
		log.String("source", res.OriginalPath),
		log.String("target", target),
	)
	return res, nil
}

// DeleteOriginalFile removes the source file of result id and then the result.
func (s *Service) DeleteOriginalFile(ctx context.Context, id string) error {
	if s.repo == nil {
		return domain.ErrRepositoryUnavailable
	}
	res, err := s.repo.GetResult(ctx, id)
	if err != nil {
		return err
	}

	if s.fs != nil {
		done := s.beginChange(res.OriginalPath)
		err := s.fs.Remove(res.OriginalPath)
		done()
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete %s: %w", res.OriginalPath, err)
		}
	}

	return s.repo.DeleteResult(ctx, id)
}

func (s *Service) move(source, target string, keepSource bool) error {
	defer s.beginChange(target)()

	if err := s.fs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	if keepSource {
		return copyFile(s.fs, source, target)
	}

	done := s.beginChange(source)
	defer done()
	if err := s.fs.Rename(source, target); err == nil {
		return nil
	}
	// Rename fails across devices; fall back to copy and delete.
	if err := copyFile(s.fs, source, target); err != nil {
		return err
	}
	return s.fs.Remove(source)
}

func (s *Service) refreshLibrary(ctx context.Context, target string) {
	if s.index == nil {
		return
	}
	itemID, err := s.index.Add(ctx, target)
	if err != nil {
		s.logger.Warn("failed to index organized file", log.String("path", target), log.Err(err))
		return
	}
	if s.providers == nil {
		return
	}
	if err := s.providers.QueueRefresh(ctx, itemID); err != nil {
		s.logger.Warn("failed to queue metadata refresh", log.String("item", itemID), log.Err(err))
	}
}

// removeEmptyFolder deletes dir when it is empty and not a watch location.
func (s *Service) removeEmptyFolder(dir string, watchLocations []string) {
	for _, loc := range watchLocations {
		if filepath.Clean(loc) == filepath.Clean(dir) {
			return
		}
	}
	empty, err := afero.IsEmpty(s.fs, dir)
	if err != nil || !empty {
		return
	}
	if err := s.fs.Remove(dir); err != nil {
		s.logger.Debug("failed to remove empty folder", log.String("path", dir), log.Err(err))
	}
}

func copyFile(fs afero.Fs, source, target string) error {
	in, err := fs.Open(source)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := fs.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func hasExtension(path string, exts []string) bool {
	ext := filepath.Ext(path)
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

func extractName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer(".", " ", "_", " ").Replace(base)
	return strings.Join(strings.Fields(base), " ")
}
