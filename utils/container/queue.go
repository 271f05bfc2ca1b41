package container

import "log"

// Queue 先进先出队列
// 功能：维护路段上车辆标识符的进入顺序，队首为最早进入（最靠前）的元素
// 说明：支持泛型，底层为环形缓冲区，出队不搬移元素
type Queue[T comparable] struct {
	data []T // 环形缓冲区
	head int // 队首下标
	size int // 当前元素个数
}

// NewQueue 创建队列
// 功能：初始化一个新的空队列
// 返回：队列指针
func NewQueue[T comparable]() *Queue[T] {
	return &Queue[T]{}
}

// Len 获取队列长度
// 返回：当前元素个数
func (q *Queue[T]) Len() int {
	return q.size
}

// At 按下标访问元素
// 功能：获取从队首起第i个元素（0为队首）
// 参数：i-下标
// 返回：对应元素
// 说明：下标越界时panic，调用方保证0<=i<Len()
func (q *Queue[T]) At(i int) T {
	if i < 0 || i >= q.size {
		log.Panicf("queue: At(%d) out of range [0,%d)", i, q.size)
	}
	return q.data[(q.head+i)%len(q.data)]
}

// Front 获取队首元素
// 返回：队首元素
func (q *Queue[T]) Front() T {
	return q.At(0)
}

// Back 获取队尾元素
// 返回：队尾元素
func (q *Queue[T]) Back() T {
	return q.At(q.size - 1)
}

// PushBack 入队
// 功能：将元素追加到队尾
// 参数：v-要追加的元素
// 算法说明：容量不足时按2倍扩容并将环形内容展开到新缓冲区头部
func (q *Queue[T]) PushBack(v T) {
	if q.size == len(q.data) {
		grown := make([]T, max(2*q.size, 4))
		for i := 0; i < q.size; i++ {
			grown[i] = q.At(i)
		}
		q.data = grown
		q.head = 0
	}
	q.data[(q.head+q.size)%len(q.data)] = v
	q.size++
}

// PopFront 出队
// 功能：移除并返回队首元素
// 返回：原队首元素
// 说明：空队列上调用时panic
func (q *Queue[T]) PopFront() T {
	if q.size == 0 {
		log.Panic("queue: PopFront on empty queue")
	}
	v := q.data[q.head]
	var zero T
	q.data[q.head] = zero
	q.head = (q.head + 1) % len(q.data)
	q.size--
	return v
}

// Remove 按值移除元素
// 功能：移除队列中第一个等于v的元素，保持其余元素顺序不变
// 参数：v-要移除的元素
// 返回：是否找到并移除
func (q *Queue[T]) Remove(v T) bool {
	for i := 0; i < q.size; i++ {
		if q.At(i) != v {
			continue
		}
		for j := i; j < q.size-1; j++ {
			q.data[(q.head+j)%len(q.data)] = q.data[(q.head+j+1)%len(q.data)]
		}
		var zero T
		q.data[(q.head+q.size-1)%len(q.data)] = zero
		q.size--
		return true
	}
	return false
}

// Values 获取队列元素快照
// 功能：按队首到队尾顺序复制所有元素
// 返回：元素切片
func (q *Queue[T]) Values() []T {
	values := make([]T, q.size)
	for i := 0; i < q.size; i++ {
		values[i] = q.At(i)
	}
	return values
}
