// Package srt formats recognized subtitles as SubRip text.
package srt
