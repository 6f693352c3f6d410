package fsx

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
)

const (
	DirPerm  = 0o755
	FilePerm = 0o644
)

// 通过可替换的函数指针，让测试能稳定模拟 rename/删除失败。
var (
	renameFunc    = os.Rename
	removeAllFunc = os.RemoveAll
)

// PathTypeConflictError 表示路径类型冲突（例如期望目录但实际是文件）。
type PathTypeConflictError struct {
	Path string
	Want string
	Got  string
}

func (e *PathTypeConflictError) Error() string {
	return fmt.Sprintf("路径类型冲突：%q（期望 %s，实际 %s）", e.Path, e.Want, e.Got)
}

func IsPathTypeConflict(err error) bool {
	var e *PathTypeConflictError
	return errors.As(err, &e)
}

// DirExists 判断 path 是否为已存在的目录。
//
// - 不存在：返回 (false, nil)
// - 存在但不是目录：返回 PathTypeConflictError
func DirExists(path string) (bool, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if !fi.IsDir() {
		return false, &PathTypeConflictError{Path: path, Want: "dir", Got: fi.Mode().Type().String()}
	}
	return true, nil
}

// ResetDir 删除 dir（若存在，递归删除；文件也会被删除）并重新创建为空目录。
// removed 表示调用前 dir 是否存在（用于提示“旧输出已删除”）。
func ResetDir(dir string) (removed bool, err error) {
	dir = filepath.Clean(dir)
	if dir == "" || dir == "." || dir == string(filepath.Separator) || isVolumeRoot(dir) {
		return false, fmt.Errorf("拒绝清空目录：%q", dir)
	}

	if _, err := os.Lstat(dir); err == nil {
		removed = true
		if err := removeAllFunc(dir); err != nil {
			return removed, err
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}

	if err := os.MkdirAll(dir, DirPerm); err != nil {
		return removed, err
	}
	return removed, nil
}

// EnsureDir 确保 dir 存在（按需递归创建）。
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, DirPerm); err != nil {
		return err
	}
	return nil
}

// WriteFileAtomicReplace 在 dir 下原子写入 name（临时文件 + rename），同名文件直接覆盖。
//
// - 临时文件必须与目标文件在同目录，以保证 rename 的原子性
// - 目标路径若是目录：返回 PathTypeConflictError
func WriteFileAtomicReplace(dir, name string, data []byte) error {
	dst := filepath.Join(filepath.Clean(dir), name)
	if fi, err := os.Lstat(dst); err == nil && fi.IsDir() {
		return &PathTypeConflictError{Path: dst, Want: "file", Got: "dir"}
	}
	return writeFileAtomic(dir, name, data, FilePerm)
}

func writeFileAtomic(dir, name string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(dir, DirPerm); err != nil {
		return err
	}

	dst := filepath.Join(dir, name)

	// 同目录临时文件，前缀带 '.'，中断时不会被误认为产物。
	tmp, err := os.CreateTemp(dir, "."+name+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if err := writeAll(tmp, data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := renameFunc(tmpName, dst); err != nil {
		return err
	}
	return nil
}

func writeAll(w io.Writer, b []byte) error {
	for len(b) > 0 {
		n, err := w.Write(b)
		if err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}

func isVolumeRoot(dir string) bool {
	if runtime.GOOS != "windows" {
		return false
	}
	vol := filepath.VolumeName(dir)
	return vol != "" && (dir == vol || dir == vol+string(filepath.Separator))
}
