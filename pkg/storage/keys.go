package storage

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

const defaultExt = "png"

// ProofKey 凭证对象 key：<userID>/<uuid>.<ext>
// 每次上传都是新 key，上传不会覆盖已被 claim 引用的对象
func ProofKey(userID, filename string) string {
	return userID + "/" + uuid.NewString() + "." + extOf(filename)
}

// OwnedBy 判断 key 是否为规范路径且位于该用户的上传前缀下
func OwnedBy(key, userID string) bool {
	if userID == "" || key == "" {
		return false
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return false
	}
	if path.Clean(key) != key {
		return false
	}
	rest, ok := strings.CutPrefix(key, userID+"/")
	return ok && rest != "" && !strings.Contains(rest, "/")
}

func extOf(filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if ext == "" || len(ext) > 5 {
		return defaultExt
	}
	for _, r := range ext {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return defaultExt
		}
	}
	return ext
}
