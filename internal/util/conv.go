package util

import (
	"fmt"
	"strconv"
)

// MustParseUint 将字符串转换为无符号整数，解析失败时返回 0
func MustParseUint(s string) uint {
	id, _ := strconv.ParseUint(s, 10, 32)
	return uint(id)
}

// AvatarObjectPrefix 用户头像在对象存储里的目录
func AvatarObjectPrefix(userID uint) string {
	return fmt.Sprintf("%s%d/", AvatarPrefix, userID)
}

// CircleObjectPrefix 圈子聊天附件在对象存储里的目录
func CircleObjectPrefix(circleID string) string {
	return CircleUploadPrefix + circleID + "/"
}
