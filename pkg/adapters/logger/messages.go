package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Review (info)
		"Reviewing %s (%d of %d)":       "%s を確認中 (%d / %d)",
		"Kept %s":                       "%s を残しました",
		"Moved %s to %s":                "%s を %s に移動しました",
		"Skipped %s":                    "%s をスキップしました",
		"All videos reviewed":           "すべての動画を確認しました",
		"Review stopped":                "確認を中断しました",
		"Review stopped at %d of %d":    "%d / %d で確認を中断しました",
		"Interrupted, shutting down...": "中断されました。終了しています...",
		"Nothing to review in %s":       "%s に未確認の動画はありません",
		"%d videos to review in %s":     "%s に未確認の動画が %d 件あります",
		"Summary saved to %s":           "サマリーを %s に保存しました",
		"Surface stopped: %s":           "表示が停止しました: %s",
		"Failed to write summary: %s":   "サマリーの書き込みに失敗しました: %s",

		// Review (warnings and errors)
		"Skipping %s: %s":                       "%s をスキップします: %s",
		"Cannot open %s, skipped":               "%s を開けないためスキップしました",
		"Reopening %s: %s":                      "%s を開き直します: %s",
		"Failed to move %s to trash: %s":        "%s をゴミ箱に移動できませんでした: %s",
		"Failed to save decision for %s: %s":    "%s の判定を保存できませんでした: %s",
		"Failed to move %s back from trash: %s": "%s をゴミ箱から戻せませんでした: %s",
		"Failed to restore %s from trash: %s":   "%s をゴミ箱から復元できませんでした: %s",
		"Journal write failed for %s: %s":       "%s のジャーナル書き込みに失敗しました: %s",
		"Dropped %s event, review is busy":      "確認処理中のため %s イベントを破棄しました",
		"Decoder did not stop cleanly: %s":      "デコーダーが正常に終了しませんでした: %s",
		"Playback error: %s":                    "再生エラー: %s",
		"Seek failed: %s":                       "シークに失敗しました: %s",
		"Seeking unavailable: duration unknown": "長さが不明なためシークできません",

		// Playback (decoder component)
		"Decoder stalled, retrying on next tick": "デコーダーが停止しました。次のティックで再試行します",
		"Dropped frame at %.2fs: %s":             "%.2f秒のフレームを破棄しました: %s",

		// Surfaces
		"Video %d of %d":             "動画 %d / %d",
		"Video %d of %d: %s (%.1fs)": "動画 %d / %d: %s (%.1f秒)",
		"Loading…":                   "読み込み中…",

		// Summary report
		"Review Summary":  "確認サマリー",
		"Run":             "実行",
		"Item":            "項目",
		"Value":           "値",
		"Directory":       "ディレクトリ",
		"Trash Directory": "ゴミ箱ディレクトリ",
		"Queued":          "対象",
		"Remaining":       "残り",
		"Elapsed":         "経過時間",
		"Status":          "状態",
		"Completed":       "完了",
		"Stopped":         "中断",
		"Outcomes":        "結果",
		"Outcome":         "結果",
		"Count":           "件数",
		"Kept":            "保持",
		"Trashed":         "ゴミ箱",
		"Skipped":         "スキップ",
		"Failed to open":  "オープン失敗",
		"Files":           "ファイル一覧",
		"File":            "ファイル",
		"Detail":          "詳細",
		"Generated at":    "生成日時",
	})
}
