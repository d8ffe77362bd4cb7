package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"quizpath_backend/internal/mastery"
	"quizpath_backend/pkg/logger"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ParseCurriculumYAML 解析单个课程文件，格式与创建课程接口的请求体一致
func ParseCurriculumYAML(data []byte) (mastery.RawLearningPath, error) {
	var raw mastery.RawLearningPath
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return raw, fmt.Errorf("parse curriculum: %w", err)
	}
	return raw, nil
}

// SeedCurricula 启动时导入目录下所有 yaml 课程，单个文件失败只记录日志。
// 返回成功导入的数量。
func (s *LearningPathService) SeedCurricula(ctx context.Context, dir string) (int, error) {
	if dir == "" {
		return 0, nil
	}
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Log.Debug("Curricula directory not found, skipping seed", zap.String("dir", dir))
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)

	seeded := 0
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			logger.Log.Warn("Failed to read curriculum", zap.String("file", file), zap.Error(err))
			continue
		}
		raw, err := ParseCurriculumYAML(data)
		if err != nil {
			logger.Log.Warn("Invalid curriculum file", zap.String("file", file), zap.Error(err))
			continue
		}
		if _, err := s.CreateLearningPath(ctx, raw); err != nil {
			logger.Log.Warn("Skipped curriculum", zap.String("file", file), zap.Error(err))
			continue
		}
		seeded++
	}

	logger.Log.Info("Curricula seeded", zap.String("dir", dir), zap.Int("count", seeded), zap.Int("files", len(files)))
	return seeded, nil
}
