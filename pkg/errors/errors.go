package errors

import "errors"

// ErrOptimisticLock 乐观锁版本不匹配：记录已被并发操作修改
var ErrOptimisticLock = errors.New("记录版本不匹配，已被其他操作修改")
