package util

const TimeFormat = "2006-01-02 15:04:05"

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// 文件上传相关常量
const (
	MimeText        = "text/plain"
	MimeCSV         = "text/csv"
	MimeXLSX        = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var (
	// AllowedDeckUploadTypes 卡组导入只接受纯文本
	AllowedDeckUploadTypes = []string{MimeText, MimeCSV}

	MaxDeckUploadSize int64 = 2 << 20
)
