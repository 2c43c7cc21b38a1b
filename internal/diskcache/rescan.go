package diskcache

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nyxmaps/mercator/internal/proj"
)

// RescanDir walks {cacheDir}/{tilesetName}/z/x/y.png and inserts an
// index entry for every file found, with LastAccessTime set to nowMS.
//
// This is the SPEC_FULL.md supplement for §9's open question on orphan
// disk files: the core Index itself always starts empty (as specified),
// but a caller — typically the application's startup code, not the
// orchestrator — may call this once to avoid silently losing byte-budget
// accounting for tiles left over from a previous run. Malformed paths
// are skipped rather than erroring the whole scan.
func (idx *Index) RescanDir(cacheDir, tilesetName string, nowMS uint64) error {
	root := filepath.Join(cacheDir, tilesetName)
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if !info.IsDir() {
		return nil
	}

	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // best-effort: skip unreadable entries
		}
		if d.IsDir() {
			return nil
		}
		coord, ok := parseTileFilePath(root, path)
		if !ok {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return nil
		}
		idx.AddEntryNoEvict(Entry{
			Coord:          coord,
			FilePath:       path,
			SizeBytes:      fi.Size(),
			LastAccessTime: nowMS,
		})
		return nil
	})
}

// AddEntryNoEvict inserts an entry without consulting SelectEvictions,
// used by RescanDir to rebuild state that predates this run's budget
// decisions rather than to make room for a fresh write.
func (idx *Index) AddEntryNoEvict(e Entry) {
	idx.AddEntry(e)
}

func parseTileFilePath(root, path string) (proj.TileCoord, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return proj.TileCoord{}, false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) != 3 {
		return proj.TileCoord{}, false
	}
	yPart := strings.TrimSuffix(parts[2], filepath.Ext(parts[2]))

	z, err1 := strconv.Atoi(parts[0])
	x, err2 := strconv.Atoi(parts[1])
	y, err3 := strconv.Atoi(yPart)
	if err1 != nil || err2 != nil || err3 != nil {
		return proj.TileCoord{}, false
	}
	c := proj.TileCoord{X: x, Y: y, Z: z}
	if !c.IsValid() {
		return proj.TileCoord{}, false
	}
	return c, true
}
