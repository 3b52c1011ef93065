package matcher

// 表头相似度打分。目录里没有现成的中文模糊匹配库，
// 这里按逐字符动态规划实现两种度量，取较大者作为得分。

// levenshteinDistance 计算编辑距离（按 rune 计）
func levenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := 0; j <= len(r2); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			curr[j] = minInt(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(r2)]
}

// LevenshteinRatio 编辑距离相似度，范围 0-1
func LevenshteinRatio(s1, s2 string) float64 {
	maxLen := len([]rune(s1))
	if l2 := len([]rune(s2)); l2 > maxLen {
		maxLen = l2
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshteinDistance(s1, s2))/float64(maxLen)
}

// lcsLength 最长公共子序列长度（按 rune 计）
func lcsLength(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	if len(r1) == 0 || len(r2) == 0 {
		return 0
	}

	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)

	for i := 1; i <= len(r1); i++ {
		for j := 1; j <= len(r2); j++ {
			if r1[i-1] == r2[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
		for j := range curr {
			curr[j] = 0
		}
	}

	return prev[len(r2)]
}

// SequenceRatio 字符序列相似度 2*LCS/(len1+len2)，范围 0-1
func SequenceRatio(s1, s2 string) float64 {
	l1 := len([]rune(s1))
	l2 := len([]rune(s2))
	if l1+l2 == 0 {
		return 1.0
	}
	return 2.0 * float64(lcsLength(s1, s2)) / float64(l1+l2)
}

// ScoreAgainst 原始表头对单个别名的得分，范围 0-100。
// 完全一致直接 100；否则取序列相似度与编辑距离相似度的较大者。
func ScoreAgainst(raw, alias string) float64 {
	if raw == alias {
		return 100.0
	}
	seq := SequenceRatio(raw, alias) * 100.0
	lev := LevenshteinRatio(raw, alias) * 100.0
	if seq >= lev {
		return seq
	}
	return lev
}

func minInt(values ...int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
