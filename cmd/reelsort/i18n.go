// Package main provides localization for the reelsort CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Configuration": "設定",
		"Review":        "確認",
		"Playback":      "再生",
		"Output":        "出力",
		"Debug":         "デバッグ",
		"Logging":       "ログ",

		// Commands
		"Sort a directory of videos into keep and trash": "ディレクトリ内の動画を保持とゴミ箱に振り分け",
		"Review the unreviewed videos in a directory":    "ディレクトリ内の未確認の動画を確認",
		"List the videos that still need review":         "未確認の動画を一覧表示",
		"Show the decision journal of a directory":       "ディレクトリの判定履歴を表示",
		"Show version information":                       "バージョン情報を表示",
		"reelsort version %s":                            "reelsort バージョン %s",

		// Flags
		"YAML config file (default: <dir>/%s)":                                  "YAML設定ファイル（デフォルト: <dir>/%s）",
		"Log level (debug, info, warn, error)":                                  "ログレベル（debug, info, warn, error）",
		"Suppress all log output":                                               "全てのログ出力を抑制",
		"Write logs to this file (the terminal player discards them otherwise)": "ログをこのファイルに書き込む（指定しない場合、端末プレイヤーはログを破棄）",
		"Directory receiving trashed videos (relative to <dir>)":                "ゴミ箱に移動した動画の保存先（<dir> からの相対パス）",
		"Read line commands from stdin instead of the terminal player":          "端末プレイヤーの代わりに標準入力から行コマンドを読む",
		"Display width in pixels":                                               "表示幅（ピクセル）",
		"Display height in pixels":                                              "表示高さ（ピクセル）",
		"Path to ffmpeg (falls back to FFMPEG_PATH env, then PATH)":             "ffmpeg のパス（FFMPEG_PATH 環境変数、PATH の順に検索）",
		"Path to ffprobe (falls back to FFPROBE_PATH env, then PATH)":           "ffprobe のパス（FFPROBE_PATH 環境変数、PATH の順に検索）",
		"SQLite journal path":                                                   "SQLite ジャーナルのパス",
		"SQLite journal path (empty disables the journal)":                      "SQLite ジャーナルのパス（空の場合は無効）",
		"Write a Markdown summary of the run to this path":                      "実行サマリーをMarkdown形式でこのパスに出力",
		"Save annotated frames and a session snapshot":                          "注釈付きフレームとセッションのスナップショットを保存",
		"Directory for debug output":                                            "デバッグ出力のディレクトリ",

		// Runtime messages
		"Error: %s":                                          "エラー: %s",
		"Kept %d, trashed %d, skipped %d, failed to open %d": "保持 %d 件、ゴミ箱 %d 件、スキップ %d 件、オープン失敗 %d 件",

		// Error messages
		"exactly one directory argument is required":                      "ディレクトリ引数を1つ指定してください",
		"%s is not a directory":                                           "%s はディレクトリではありません",
		"no journal configured (use --journal or the journal config key)": "ジャーナルが設定されていません（--journal または設定キー journal を指定してください）",
	})
}
