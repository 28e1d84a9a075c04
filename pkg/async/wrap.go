package async

// ErrAble 在新协程里执行 fn，结果写入返回的通道后关闭通道
func ErrAble(fn func() error) <-chan error {
	ch := make(chan error, 1)
	go func() {
		ch <- fn()
		close(ch)
	}()
	return ch
}
