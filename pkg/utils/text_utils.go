package utils

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/image/font"
)

// MeasureText 测量单行文本的像素宽度
func MeasureText(textStr string, face font.Face) int {
	if textStr == "" || face == nil {
		return 0
	}
	return font.MeasureString(face, textStr).Ceil()
}

// CenteredX 返回让文本在 [x, x+width) 内水平居中的起始X
func CenteredX(textStr string, face font.Face, x, width int) int {
	return x + (width-MeasureText(textStr, face))/2
}

// WrapText 将文本按指定宽度自动换行
//
// 换行规则:
//   - 优先在空格处断行
//   - 如果单词太长超过最大宽度，强制断行
func WrapText(textStr string, face font.Face, maxWidth int) []string {
	if textStr == "" || face == nil || maxWidth <= 0 {
		return []string{textStr}
	}
	if MeasureText(textStr, face) <= maxWidth {
		return []string{textStr}
	}

	var lines []string
	currentLine := ""
	for _, word := range strings.Fields(textStr) {
		testLine := word
		if currentLine != "" {
			testLine = currentLine + " " + word
		}
		if MeasureText(testLine, face) <= maxWidth {
			currentLine = testLine
			continue
		}
		if currentLine != "" {
			lines = append(lines, currentLine)
		}
		// 单词本身超宽，按字符强制断行
		for MeasureText(word, face) > maxWidth {
			cut := fitPrefix(word, face, maxWidth)
			lines = append(lines, word[:cut])
			word = word[cut:]
		}
		currentLine = word
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}
	return lines
}

// fitPrefix 返回能放进 maxWidth 的最长前缀的字节长度，至少一个字符
func fitPrefix(word string, face font.Face, maxWidth int) int {
	end := 0
	for end < len(word) {
		_, size := utf8.DecodeRuneInString(word[end:])
		if end > 0 && MeasureText(word[:end+size], face) > maxWidth {
			break
		}
		end += size
	}
	return end
}
